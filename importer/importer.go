// Package importer brings entries saved in other services into readlater.
// Records are either persisted right away or handed to a Producer for a
// worker to import later.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// DefaultBatchSize is how many imported entries are buffered before the
// batch is flushed.
const DefaultBatchSize = 20

// URLFilter is a probabilistic set of URLs the user already saved.
// bloom.Filter satisfies it.
type URLFilter interface {
	Test(url string) bool
	Add(url string)
}

// Options configures an Importer. The value is copied by New and never
// changes afterwards.
type Options struct {
	// User owns the imported entries. Required.
	User *readlater.User

	// MarkAsRead archives every imported entry.
	MarkAsRead bool

	// Producer switches the importer to queued mode when set.
	Producer readlater.Producer

	Entries  readlater.EntryService
	Batch    readlater.EntryBatch
	Resolver readlater.ContentResolver
	Events   readlater.EventDispatcher

	// Seen lets the importer skip the entry lookup for URLs that are
	// definitely new. Optional.
	Seen URLFilter

	BatchSize int
	Logger    *slog.Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Importer dispatches the records of one export. It holds no per-run state
// and is safe for concurrent use.
type Importer struct {
	name string
	opts Options
}

// New creates an Importer identified by name in logs and queued payloads.
func New(name string, opts Options) *Importer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Importer{name: name, opts: opts}
}

// Name returns the importer's name.
func (i *Importer) Name() string {
	return i.name
}

// Queued reports whether records are handed to a Producer.
func (i *Importer) Queued() bool {
	return i.opts.Producer != nil
}

// run holds the state of one Import call.
type run struct {
	summary readlater.Summary
	seen    map[string]struct{}
	pending []*readlater.Entry
}

// Import processes every record of src. Each record ends up counted as
// exactly one of skipped, imported or queued.
//
// A record whose content cannot be resolved is still imported with the
// metadata from the export. Failures to persist or publish stop the run.
// Entries already persisted are flushed before returning, and the summary
// counts only what reached storage.
func (i *Importer) Import(ctx context.Context, src readlater.RecordSource) (readlater.Summary, error) {
	logger := i.opts.Logger.With("importer", i.name)

	if i.opts.User == nil {
		logger.ErrorContext(ctx, "user is not defined")
		return readlater.Summary{}, readlater.Errorf(readlater.EINVALID, "%s: user is not defined", i.name)
	}

	records, err := src.Records(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "unable to read file", "err", err)
		if readlater.ErrorCode(err) == readlater.EINVALID {
			return readlater.Summary{}, err
		}
		return readlater.Summary{}, readlater.Errorf(readlater.EINVALID, "%s: unable to read file: %v", i.name, err)
	}

	r := &run{seen: make(map[string]struct{}, len(records))}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return i.abort(ctx, r, err)
		}

		if i.Queued() {
			err = i.enqueue(ctx, rec)
		} else {
			err = i.importRecord(ctx, logger, r, rec)
		}
		if err != nil {
			return i.abort(ctx, r, err)
		}
		if i.Queued() {
			r.summary.Queued++
		}
	}

	if err := i.flush(ctx, r); err != nil {
		return r.summary, err
	}

	logger.InfoContext(ctx, "import finished",
		"user", i.opts.User.ID,
		"skipped", r.summary.Skipped,
		"imported", r.summary.Imported,
		"queued", r.summary.Queued,
	)
	return r.summary, nil
}

// enqueue publishes the record for a worker.
func (i *Importer) enqueue(ctx context.Context, rec *readlater.ImportRecord) error {
	payload, err := json.Marshal(readlater.QueuedRecord{
		UserID:     i.opts.User.ID,
		Importer:   i.name,
		MarkAsRead: i.opts.MarkAsRead,
		Record:     rec,
	})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", rec.URL, err)
	}
	if err := i.opts.Producer.Publish(ctx, payload); err != nil {
		return fmt.Errorf("publish %s: %w", rec.URL, err)
	}
	return nil
}

// importRecord persists one record unless the user already saved its URL.
func (i *Importer) importRecord(ctx context.Context, logger *slog.Logger, r *run, rec *readlater.ImportRecord) error {
	if _, ok := r.seen[rec.URL]; ok {
		r.summary.Skipped++
		return nil
	}
	r.seen[rec.URL] = struct{}{}

	exists, err := i.exists(ctx, rec.URL)
	if err != nil {
		return err
	}
	if exists {
		r.summary.Skipped++
		return nil
	}

	entry := i.newEntry(rec)
	if err := i.opts.Resolver.ResolveEntry(ctx, entry, rec.Content); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.WarnContext(ctx, "unable to resolve content", "url", rec.URL, "err", err)
		if entry.Title == "" {
			entry.Title = rec.URL
		}
	}

	if i.opts.MarkAsRead || rec.IsArchived {
		entry.Archive(i.opts.Now())
	}

	if err := i.opts.Batch.Persist(ctx, entry); err != nil {
		return fmt.Errorf("persist %s: %w", rec.URL, err)
	}
	r.summary.Imported++
	r.pending = append(r.pending, entry)

	if len(r.pending) >= i.opts.BatchSize {
		return i.flush(ctx, r)
	}
	return nil
}

// flush writes the pending entries. Entries the batch dropped because the
// user saved them concurrently move from imported to skipped. If the write
// fails, none of the pending entries count as imported.
func (i *Importer) flush(ctx context.Context, r *run) error {
	pending := r.pending
	r.pending = nil
	if len(pending) == 0 {
		return nil
	}

	dropped, err := i.opts.Batch.Flush(ctx)
	if err != nil {
		r.summary.Imported -= len(pending)
		return fmt.Errorf("flush entries: %w", err)
	}

	skip := make(map[*readlater.Entry]struct{}, len(dropped))
	for _, entry := range dropped {
		skip[entry] = struct{}{}
	}
	for _, entry := range pending {
		if _, ok := skip[entry]; ok {
			r.summary.Imported--
			r.summary.Skipped++
			continue
		}
		if i.opts.Seen != nil {
			i.opts.Seen.Add(entry.URL)
		}
		if i.opts.Events != nil {
			i.opts.Events.Dispatch(ctx, readlater.Event{Name: readlater.EventEntrySaved, Entry: entry})
		}
	}
	return nil
}

// abort stops a run on cause. Entries persisted before it are still
// written, even when cause is a cancelled context.
func (i *Importer) abort(ctx context.Context, r *run, cause error) (readlater.Summary, error) {
	if err := i.flush(context.WithoutCancel(ctx), r); err != nil {
		return r.summary, errors.Join(cause, err)
	}
	return r.summary, cause
}

// exists reports whether the user already saved url.
func (i *Importer) exists(ctx context.Context, url string) (bool, error) {
	if i.opts.Seen != nil && !i.opts.Seen.Test(url) {
		return false, nil
	}
	_, err := i.opts.Entries.FindEntryByURL(ctx, i.opts.User.ID, url)
	switch readlater.ErrorCode(err) {
	case "":
		return true, nil
	case readlater.ENOTFOUND:
		return false, nil
	default:
		return false, fmt.Errorf("find entry %s: %w", url, err)
	}
}

// newEntry builds the entry for a record. Content is left for the resolver.
func (i *Importer) newEntry(rec *readlater.ImportRecord) *readlater.Entry {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = i.opts.Now()
	}
	return &readlater.Entry{
		UserID:    i.opts.User.ID,
		URL:       rec.URL,
		Title:     rec.Title,
		Tags:      readlater.NormalizeTags(rec.Tags),
		IsStarred: rec.IsStarred,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}
