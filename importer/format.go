package importer

import (
	"context"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/readlater"
)

// parseFunc reads every record of one export format.
type parseFunc func(r io.Reader) ([]*readlater.ImportRecord, error)

// Format describes an export format the importer understands.
type Format struct {
	Name        string
	Description string
	parse       parseFunc
}

var formats = map[string]Format{
	"readability": {Name: "Readability", Description: "Readability JSON export", parse: parseReadability},
	"wallabag":    {Name: "Wallabag", Description: "wallabag v2 JSON export", parse: parseWallabag},
	"pinboard":    {Name: "Pinboard", Description: "Pinboard JSON export", parse: parsePinboard},
	"browser":     {Name: "Browser", Description: "Netscape bookmark file exported by browsers", parse: parseBrowser},
	"sitemap":     {Name: "Sitemap", Description: "XML sitemap urlset", parse: parseSitemap},
}

// Formats returns the keys of every supported format, sorted.
func Formats() []string {
	keys := make([]string, 0, len(formats))
	for k := range formats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// LookupFormat returns the format registered under key.
// Returns EINVALID if the format is unknown.
func LookupFormat(key string) (Format, error) {
	f, ok := formats[strings.ToLower(key)]
	if !ok {
		return Format{}, readlater.Errorf(readlater.EINVALID, "unknown import format %q (supported: %s)", key, strings.Join(Formats(), ", "))
	}
	return f, nil
}

// Ensure FileSource implements readlater.RecordSource at compile time.
var _ readlater.RecordSource = (*FileSource)(nil)

// FileSource reads records from an export file on disk.
type FileSource struct {
	path   string
	format Format
}

// NewFileSource creates a source for the export at path.
// Returns EINVALID if the format is unknown.
func NewFileSource(format, path string) (*FileSource, error) {
	f, err := LookupFormat(format)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, format: f}, nil
}

// Format returns the source's format.
func (s *FileSource) Format() Format {
	return s.format
}

// Records opens and parses the file.
func (s *FileSource) Records(ctx context.Context) ([]*readlater.ImportRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "open %s: %v", s.path, err)
	}
	defer f.Close()

	records, err := s.format.parse(f)
	if err != nil {
		if readlater.ErrorCode(err) == readlater.EINVALID {
			return nil, err
		}
		return nil, readlater.Errorf(readlater.EINVALID, "parse %s: %v", s.path, err)
	}
	return records, nil
}

// Ensure Records implements readlater.RecordSource at compile time.
var _ readlater.RecordSource = Records(nil)

// Records is an in-memory record source.
type Records []*readlater.ImportRecord

// Records returns the records as is.
func (r Records) Records(context.Context) ([]*readlater.ImportRecord, error) {
	return r, nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime accepts the date formats found in exports. Values without a
// zone are read as UTC. Unparseable values yield the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).UTC()
	}
	return time.Time{}
}

// flexBool decodes JSON booleans that exports write as true/false, 0/1 or
// "yes"/"no".
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.ToLower(string(data)), `"`)
	switch s {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}
