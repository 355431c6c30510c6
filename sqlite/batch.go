package sqlite

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/readlater"
)

// Compile-time interface verification.
var _ readlater.EntryBatch = (*EntryBatch)(nil)

// EntryBatch buffers new entries and inserts them in one transaction.
// Entries whose URL the user saved after they were queued are dropped on
// flush. It is safe for concurrent use.
type EntryBatch struct {
	db *DB

	mu      sync.Mutex
	pending []*readlater.Entry
}

// NewEntryBatch creates a new EntryBatch.
func NewEntryBatch(db *DB) *EntryBatch {
	return &EntryBatch{db: db}
}

// Persist validates the entry, assigns its ID and queues it.
func (b *EntryBatch) Persist(ctx context.Context, entry *readlater.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	prepareEntry(entry)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = append(b.pending, entry)
	return nil
}

// Flush writes every queued entry and reports the ones dropped as already
// saved. The batch is empty afterwards, whether or not the write succeeded;
// on failure nothing is written.
func (b *EntryBatch) Flush(ctx context.Context) ([]*readlater.Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pending := b.pending
	b.pending = nil
	if len(pending) == 0 {
		return nil, nil
	}

	tx, err := b.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var dropped []*readlater.Entry
	for _, entry := range pending {
		inserted, err := insertEntry(ctx, tx, entry, true)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", entry.URL, err)
		}
		if !inserted {
			dropped = append(dropped, entry)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return dropped, nil
}

// Len returns the number of queued entries.
func (b *EntryBatch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
