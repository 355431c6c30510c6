package readlater

import (
	"context"
	"time"
)

// ImportRecord is one item read from an export of another service.
type ImportRecord struct {
	URL        string    `json:"url"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content,omitempty"` // HTML, empty when the export has none
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	IsArchived bool      `json:"isArchived,omitempty"`
	IsStarred  bool      `json:"isStarred,omitempty"`
}

// RecordSource yields the records of one export.
type RecordSource interface {
	// Records parses the whole export.
	// Returns EINVALID if the export cannot be opened or parsed.
	Records(ctx context.Context) ([]*ImportRecord, error)
}

// QueuedRecord is the payload handed to a Producer in queued mode.
type QueuedRecord struct {
	UserID     string        `json:"userId"`
	Importer   string        `json:"importer"`
	MarkAsRead bool          `json:"markAsRead,omitempty"`
	Record     *ImportRecord `json:"record"`
}

// Producer accepts serialized records for out-of-band processing.
// Accepted means queued, not processed.
type Producer interface {
	Publish(ctx context.Context, payload []byte) error
}

// Message is a payload taken off a Queue.
type Message struct {
	ID      int64
	Payload []byte
}

// Queue is a Producer whose messages can be taken back off in FIFO order.
// A popped message stays in the queue, hidden from other Pop calls, until it
// is acknowledged or released.
type Queue interface {
	Producer

	// Pop leases the oldest available message.
	// Returns ENOTFOUND if no message is available.
	Pop(ctx context.Context) (*Message, error)

	// Ack removes a leased message for good.
	Ack(ctx context.Context, msg *Message) error

	// Release makes a leased message available to Pop again.
	Release(ctx context.Context, msg *Message) error
}

// Summary counts the outcome of one import run.
type Summary struct {
	Skipped  int `json:"skipped"`
	Imported int `json:"imported"`
	Queued   int `json:"queued"`
}

// Total returns the number of records the run processed.
func (s Summary) Total() int {
	return s.Skipped + s.Imported + s.Queued
}

// ContentResolver fills an entry's content from the page at its URL.
type ContentResolver interface {
	// ResolveEntry extracts title and content from html, fetching entry.URL
	// first when html is empty.
	ResolveEntry(ctx context.Context, entry *Entry, html string) error
}
