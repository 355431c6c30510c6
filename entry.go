package readlater

import (
	"context"
	"strings"
	"time"
	"unicode"
)

// WordsPerMinute is the reading speed used to estimate ReadingTime.
const WordsPerMinute = 200

// Entry represents a saved article.
type Entry struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Content     string     `json:"content"` // sanitized HTML
	Domain      string     `json:"domain"`
	ReadingTime int        `json:"readingTime"` // minutes
	ContentHash string     `json:"contentHash"`
	Picture     string     `json:"previewPicture,omitempty"`
	Tags        []string   `json:"tags"`
	IsArchived  bool       `json:"isArchived"`
	IsStarred   bool       `json:"isStarred"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.UserID == "" {
		return Errorf(EINVALID, "entry user ID required")
	}
	if e.URL == "" {
		return Errorf(EINVALID, "entry URL required")
	}
	return nil
}

// Archive marks the entry as read.
func (e *Entry) Archive(at time.Time) {
	e.IsArchived = true
	e.ArchivedAt = &at
}

// EstimateReadingTime returns the reading time in minutes for HTML or plain
// text content. Non-empty content always takes at least one minute.
func EstimateReadingTime(content string) int {
	words := len(strings.FieldsFunc(stripMarkup(content), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	}))
	if words == 0 {
		return 0
	}
	return max(1, words/WordsPerMinute)
}

// stripMarkup drops everything between angle brackets.
func stripMarkup(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
			b.WriteRune(' ')
		case r == '>' && depth > 0:
			depth--
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EntryService represents a service for managing entries.
type EntryService interface {
	// CreateEntry creates a new entry.
	// Returns ECONFLICT if the user already saved the URL.
	CreateEntry(ctx context.Context, entry *Entry) error

	// FindEntryByID retrieves an entry by ID.
	// Returns ENOTFOUND if entry does not exist.
	FindEntryByID(ctx context.Context, id string) (*Entry, error)

	// FindEntryByURL retrieves the entry a user saved for a URL.
	// Returns ENOTFOUND if the user has not saved the URL.
	FindEntryByURL(ctx context.Context, userID, url string) (*Entry, error)

	// FindEntries retrieves entries matching the filter.
	FindEntries(ctx context.Context, filter EntryFilter) ([]*Entry, error)

	// FindEntryURLs returns every URL saved by the user.
	FindEntryURLs(ctx context.Context, userID string) ([]string, error)

	// DeleteEntry permanently removes an entry and its tag assignments.
	// Returns ENOTFOUND if entry does not exist.
	DeleteEntry(ctx context.Context, id string) error
}

// EntryFilter represents a filter for FindEntries.
type EntryFilter struct {
	UserID     *string `json:"userId"`
	Tag        *string `json:"tag"`
	IsArchived *bool   `json:"isArchived"`
	IsStarred  *bool   `json:"isStarred"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// EntryBatch buffers new entries and writes them together. A batch belongs
// to one import run.
type EntryBatch interface {
	// Persist validates and queues an entry.
	Persist(ctx context.Context, entry *Entry) error

	// Flush writes every queued entry atomically and empties the batch. It
	// returns the queued entries that were not written because the user
	// saved their URL in the meantime.
	Flush(ctx context.Context) (dropped []*Entry, err error)
}

// EntryWriter exports entries outside the database.
type EntryWriter interface {
	WriteEntry(ctx context.Context, entry *Entry) error
}
