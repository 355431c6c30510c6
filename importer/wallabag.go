package importer

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fwojciec/readlater"
)

type wallabagEntry struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`
	IsArchived flexBool `json:"is_archived"`
	IsStarred  flexBool `json:"is_starred"`
	CreatedAt  string   `json:"created_at"`
}

// parseWallabag reads a wallabag v2 JSON export, which already holds the
// extracted content of each entry.
func parseWallabag(r io.Reader) ([]*readlater.ImportRecord, error) {
	var entries []wallabagEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid wallabag export: %v", err)
	}

	records := make([]*readlater.ImportRecord, 0, len(entries))
	for _, e := range entries {
		u := strings.TrimSpace(e.URL)
		if u == "" {
			continue
		}
		records = append(records, &readlater.ImportRecord{
			URL:        u,
			Title:      e.Title,
			Content:    e.Content,
			Tags:       readlater.NormalizeTags(e.Tags),
			CreatedAt:  parseTime(e.CreatedAt),
			IsArchived: bool(e.IsArchived),
			IsStarred:  bool(e.IsStarred),
		})
	}
	return records, nil
}
