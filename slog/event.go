package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/readlater"
)

// Ensure EventLogger implements readlater.EventDispatcher.
var _ readlater.EventDispatcher = (*EventLogger)(nil)

// EventLogger logs every event and forwards it to next, if set.
type EventLogger struct {
	next   readlater.EventDispatcher
	logger *slog.Logger
}

// NewEventLogger creates a new EventLogger. next may be nil.
func NewEventLogger(next readlater.EventDispatcher, logger *slog.Logger) *EventLogger {
	return &EventLogger{next: next, logger: logger}
}

// Dispatch logs the event and forwards it.
func (d *EventLogger) Dispatch(ctx context.Context, event readlater.Event) {
	attrs := []any{"event", event.Name}
	if e := event.Entry; e != nil {
		attrs = append(attrs, "entry", e.ID, "url", e.URL, "user", e.UserID)
	}
	d.logger.DebugContext(ctx, "entry event", attrs...)

	if d.next != nil {
		d.next.Dispatch(ctx, event)
	}
}
