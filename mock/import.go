package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var (
	_ readlater.RecordSource    = (*RecordSource)(nil)
	_ readlater.Producer        = (*Producer)(nil)
	_ readlater.Queue           = (*Queue)(nil)
	_ readlater.ContentResolver = (*ContentResolver)(nil)
	_ readlater.EventDispatcher = (*EventDispatcher)(nil)
)

// RecordSource is a mock implementation of readlater.RecordSource.
type RecordSource struct {
	RecordsFn func(ctx context.Context) ([]*readlater.ImportRecord, error)
}

func (s *RecordSource) Records(ctx context.Context) ([]*readlater.ImportRecord, error) {
	return s.RecordsFn(ctx)
}

// Producer is a mock implementation of readlater.Producer.
type Producer struct {
	PublishFn func(ctx context.Context, payload []byte) error
}

func (p *Producer) Publish(ctx context.Context, payload []byte) error {
	return p.PublishFn(ctx, payload)
}

// Queue is a mock implementation of readlater.Queue.
type Queue struct {
	PublishFn func(ctx context.Context, payload []byte) error
	PopFn     func(ctx context.Context) (*readlater.Message, error)
	AckFn     func(ctx context.Context, msg *readlater.Message) error
	ReleaseFn func(ctx context.Context, msg *readlater.Message) error
}

func (q *Queue) Publish(ctx context.Context, payload []byte) error {
	return q.PublishFn(ctx, payload)
}

func (q *Queue) Pop(ctx context.Context) (*readlater.Message, error) {
	return q.PopFn(ctx)
}

func (q *Queue) Ack(ctx context.Context, msg *readlater.Message) error {
	return q.AckFn(ctx, msg)
}

func (q *Queue) Release(ctx context.Context, msg *readlater.Message) error {
	return q.ReleaseFn(ctx, msg)
}

// ContentResolver is a mock implementation of readlater.ContentResolver.
type ContentResolver struct {
	ResolveEntryFn func(ctx context.Context, entry *readlater.Entry, html string) error
}

func (r *ContentResolver) ResolveEntry(ctx context.Context, entry *readlater.Entry, html string) error {
	return r.ResolveEntryFn(ctx, entry, html)
}

// EventDispatcher is a mock implementation of readlater.EventDispatcher.
type EventDispatcher struct {
	DispatchFn func(ctx context.Context, event readlater.Event)
}

func (d *EventDispatcher) Dispatch(ctx context.Context, event readlater.Event) {
	d.DispatchFn(ctx, event)
}
