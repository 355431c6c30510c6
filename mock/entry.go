package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var (
	_ readlater.EntryService = (*EntryService)(nil)
	_ readlater.EntryBatch   = (*EntryBatch)(nil)
	_ readlater.EntryWriter  = (*EntryWriter)(nil)
)

// EntryService is a mock implementation of readlater.EntryService.
type EntryService struct {
	CreateEntryFn    func(ctx context.Context, entry *readlater.Entry) error
	FindEntryByIDFn  func(ctx context.Context, id string) (*readlater.Entry, error)
	FindEntryByURLFn func(ctx context.Context, userID, url string) (*readlater.Entry, error)
	FindEntriesFn    func(ctx context.Context, filter readlater.EntryFilter) ([]*readlater.Entry, error)
	FindEntryURLsFn  func(ctx context.Context, userID string) ([]string, error)
	DeleteEntryFn    func(ctx context.Context, id string) error
}

func (s *EntryService) CreateEntry(ctx context.Context, entry *readlater.Entry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *EntryService) FindEntryByID(ctx context.Context, id string) (*readlater.Entry, error) {
	return s.FindEntryByIDFn(ctx, id)
}

func (s *EntryService) FindEntryByURL(ctx context.Context, userID, url string) (*readlater.Entry, error) {
	return s.FindEntryByURLFn(ctx, userID, url)
}

func (s *EntryService) FindEntries(ctx context.Context, filter readlater.EntryFilter) ([]*readlater.Entry, error) {
	return s.FindEntriesFn(ctx, filter)
}

func (s *EntryService) FindEntryURLs(ctx context.Context, userID string) ([]string, error) {
	return s.FindEntryURLsFn(ctx, userID)
}

func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	return s.DeleteEntryFn(ctx, id)
}

// EntryBatch is a mock implementation of readlater.EntryBatch.
type EntryBatch struct {
	PersistFn func(ctx context.Context, entry *readlater.Entry) error
	FlushFn   func(ctx context.Context) ([]*readlater.Entry, error)
}

func (b *EntryBatch) Persist(ctx context.Context, entry *readlater.Entry) error {
	return b.PersistFn(ctx, entry)
}

func (b *EntryBatch) Flush(ctx context.Context) ([]*readlater.Entry, error) {
	return b.FlushFn(ctx)
}

// EntryWriter is a mock implementation of readlater.EntryWriter.
type EntryWriter struct {
	WriteEntryFn func(ctx context.Context, entry *readlater.Entry) error
}

func (w *EntryWriter) WriteEntry(ctx context.Context, entry *readlater.Entry) error {
	return w.WriteEntryFn(ctx, entry)
}
