package importer

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/readlater"
)

// Ensure ChannelProducer implements readlater.Queue at compile time.
var _ readlater.Queue = (*ChannelProducer)(nil)

// ChannelProducer is an in-process queue backed by a buffered channel.
// Messages are lost when the process exits; use sqlite.ImportQueue for a
// durable queue.
type ChannelProducer struct {
	ch     chan *readlater.Message
	nextID atomic.Int64
}

// NewChannelProducer creates a queue holding up to size messages.
// Publish blocks while the queue is full.
func NewChannelProducer(size int) *ChannelProducer {
	return &ChannelProducer{ch: make(chan *readlater.Message, size)}
}

// Publish adds payload to the queue, waiting for room or for ctx to end.
func (p *ChannelProducer) Publish(ctx context.Context, payload []byte) error {
	msg := &readlater.Message{ID: p.nextID.Add(1), Payload: payload}
	select {
	case p.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pop removes the oldest message without waiting. The message is not
// leased, so a message that is neither acknowledged nor released is gone.
// Returns ENOTFOUND if the queue is empty.
func (p *ChannelProducer) Pop(ctx context.Context) (*readlater.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case msg := <-p.ch:
		return msg, nil
	default:
		return nil, readlater.Errorf(readlater.ENOTFOUND, "import queue is empty")
	}
}

// Ack does nothing; Pop already took msg off the channel.
func (p *ChannelProducer) Ack(context.Context, *readlater.Message) error {
	return nil
}

// Release puts msg back at the end of the queue.
func (p *ChannelProducer) Release(ctx context.Context, msg *readlater.Message) error {
	select {
	case p.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len returns the number of queued messages.
func (p *ChannelProducer) Len() int {
	return len(p.ch)
}
