package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// Ensure LoggingResolver implements readlater.ContentResolver.
var _ readlater.ContentResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a ContentResolver with logging.
type LoggingResolver struct {
	next   readlater.ContentResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next readlater.ContentResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// ResolveEntry delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) ResolveEntry(ctx context.Context, entry *readlater.Entry, html string) (err error) {
	defer func(begin time.Time) {
		r.logger.DebugContext(ctx, "resolve entry",
			"url", entry.URL,
			"supplied", html != "",
			"reading_time", entry.ReadingTime,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ResolveEntry(ctx, entry, html)
}
