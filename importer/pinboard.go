package importer

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/readlater"
)

type pinboardPost struct {
	Href        string   `json:"href"`
	Description string   `json:"description"`
	Tags        string   `json:"tags"`
	Time        string   `json:"time"`
	ToRead      flexBool `json:"toread"`
}

// parsePinboard reads a Pinboard JSON export. Posts not flagged "to read"
// were already read and are imported archived.
func parsePinboard(r io.Reader) ([]*readlater.ImportRecord, error) {
	var posts []pinboardPost
	if err := json.NewDecoder(r).Decode(&posts); err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid pinboard export: %v", err)
	}

	records := make([]*readlater.ImportRecord, 0, len(posts))
	for _, p := range posts {
		u := strings.TrimSpace(p.Href)
		if u == "" {
			continue
		}
		records = append(records, &readlater.ImportRecord{
			URL:        u,
			Title:      p.Description,
			Tags:       readlater.SplitTags(p.Tags),
			CreatedAt:  parseTime(p.Time),
			IsArchived: !bool(p.ToRead),
		})
	}
	return records, nil
}
