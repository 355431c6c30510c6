package importer

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/readlater"
)

type readabilityExport struct {
	Bookmarks []struct {
		URL       string   `json:"article__url"`
		Title     string   `json:"article__title"`
		Archive   flexBool `json:"archive"`
		Favorite  flexBool `json:"favorite"`
		DateAdded string   `json:"date_added"`
	} `json:"bookmarks"`
}

// parseReadability reads the bookmarks of a Readability export. The export
// carries no article content; it is fetched when the record is imported.
func parseReadability(r io.Reader) ([]*readlater.ImportRecord, error) {
	var export readabilityExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid readability export: %v", err)
	}

	records := make([]*readlater.ImportRecord, 0, len(export.Bookmarks))
	for _, b := range export.Bookmarks {
		u := strings.TrimSpace(b.URL)
		if u == "" {
			continue
		}
		records = append(records, &readlater.ImportRecord{
			URL:        u,
			Title:      b.Title,
			CreatedAt:  parseTime(b.DateAdded),
			IsArchived: bool(b.Archive),
			IsStarred:  bool(b.Favorite),
		})
	}
	return records, nil
}
