package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/fwojciec/readlater"
)

// Consumer imports records published by a queued Importer. Each message
// is written through its own batch from NewBatch, so a Consumer is safe
// for concurrent use.
type Consumer struct {
	Users    readlater.UserService
	Entries  readlater.EntryService
	NewBatch func() readlater.EntryBatch
	Resolver readlater.ContentResolver
	Events   readlater.EventDispatcher
	Logger   *slog.Logger
}

// Consume decodes one QueuedRecord and imports it synchronously for the
// user who queued it.
// Returns EINVALID if the payload cannot be decoded.
func (c *Consumer) Consume(ctx context.Context, payload []byte) (readlater.Summary, error) {
	var q readlater.QueuedRecord
	if err := json.Unmarshal(payload, &q); err != nil {
		return readlater.Summary{}, readlater.Errorf(readlater.EINVALID, "invalid queued record: %v", err)
	}
	if q.Record == nil || q.Record.URL == "" {
		return readlater.Summary{}, readlater.Errorf(readlater.EINVALID, "queued record has no URL")
	}

	user, err := c.Users.FindUserByID(ctx, q.UserID)
	if err != nil {
		return readlater.Summary{}, fmt.Errorf("find user %s: %w", q.UserID, err)
	}

	name := q.Importer
	if name == "" {
		name = "queue"
	}
	imp := New(name, Options{
		User:       user,
		MarkAsRead: q.MarkAsRead,
		Entries:    c.Entries,
		Batch:      c.NewBatch(),
		Resolver:   c.Resolver,
		Events:     c.Events,
		Logger:     c.Logger,
	})
	return imp.Import(ctx, Records{q.Record})
}
