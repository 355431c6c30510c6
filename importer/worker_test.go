package importer_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/importer"
	"github.com/fwojciec/readlater/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsumer(f *fixture) *importer.Consumer {
	return &importer.Consumer{
		Users: &mock.UserService{
			FindUserByIDFn: func(_ context.Context, id string) (*readlater.User, error) {
				if id != testUser.ID {
					return nil, readlater.Errorf(readlater.ENOTFOUND, "user not found")
				}
				return testUser, nil
			},
		},
		Entries:  f.entries,
		NewBatch: func() readlater.EntryBatch { return f.batch },
		Resolver: f.resolver,
		Events:   f.events,
	}
}

func TestConsumer_Consume(t *testing.T) {
	t.Parallel()

	t.Run("imports a queued record for its user", func(t *testing.T) {
		t.Parallel()

		f := newFixture()
		c := newConsumer(f)

		summary, err := c.Consume(context.Background(), []byte(`{
			"userId": "user-1",
			"importer": "Readability",
			"markAsRead": true,
			"record": {"url": "https://example.com/queued", "title": "Queued"}
		}`))

		require.NoError(t, err)
		assert.Equal(t, readlater.Summary{Imported: 1}, summary)
		require.Len(t, f.persisted, 1)
		assert.Equal(t, "Queued", f.persisted[0].Title)
		assert.True(t, f.persisted[0].IsArchived)
		assert.Equal(t, 1, f.flushes)
	})

	t.Run("skips a record the user already saved", func(t *testing.T) {
		t.Parallel()

		f := newFixture("https://example.com/queued")
		c := newConsumer(f)

		summary, err := c.Consume(context.Background(), []byte(`{"userId":"user-1","record":{"url":"https://example.com/queued"}}`))

		require.NoError(t, err)
		assert.Equal(t, readlater.Summary{Skipped: 1}, summary)
	})

	t.Run("rejects malformed payload", func(t *testing.T) {
		t.Parallel()

		c := newConsumer(newFixture())

		_, err := c.Consume(context.Background(), []byte(`not json`))

		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})

	t.Run("rejects payload without record", func(t *testing.T) {
		t.Parallel()

		c := newConsumer(newFixture())

		_, err := c.Consume(context.Background(), []byte(`{"userId":"user-1"}`))

		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})

	t.Run("returns not found for unknown user", func(t *testing.T) {
		t.Parallel()

		c := newConsumer(newFixture())

		_, err := c.Consume(context.Background(), []byte(`{"userId":"ghost","record":{"url":"https://example.com/a"}}`))

		assert.Equal(t, readlater.ENOTFOUND, readlater.ErrorCode(err))
	})
}

func TestWorker_Run(t *testing.T) {
	t.Parallel()

	t.Run("drains records queued by an importer", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		queue := importer.NewChannelProducer(10)

		producerSide := newFixture()
		opts := producerSide.options()
		opts.Producer = queue
		summary, err := importer.New("Readability", opts).Import(ctx, readabilitySource(t))
		require.NoError(t, err)
		require.Equal(t, 3, summary.Queued)

		f := newFixture()
		w := &importer.Worker{Queue: queue, Consumer: newConsumer(f), Concurrency: 2}

		result, err := w.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, result.Consumed)
		assert.Zero(t, result.Failed)
		assert.Equal(t, readlater.Summary{Imported: 3}, result.Summary)
		assert.Len(t, f.persisted, 3)
		assert.Zero(t, queue.Len())
	})

	t.Run("logs and counts messages that fail", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		queue := importer.NewChannelProducer(10)
		require.NoError(t, queue.Publish(ctx, []byte(`garbage`)))
		require.NoError(t, queue.Publish(ctx, []byte(`{"userId":"user-1","record":{"url":"https://example.com/ok"}}`)))

		var buf bytes.Buffer
		f := newFixture()
		w := &importer.Worker{
			Queue:    queue,
			Consumer: newConsumer(f),
			Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
		}

		result, err := w.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Consumed)
		assert.Equal(t, 1, result.Failed)
		assert.Contains(t, buf.String(), "unable to consume message")
	})

	t.Run("releases messages that fail transiently", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		queue := importer.NewChannelProducer(10)
		require.NoError(t, queue.Publish(ctx, []byte(`{"userId":"user-1","record":{"url":"https://example.com/a"}}`)))

		f := newFixture()
		c := newConsumer(f)
		c.Users = &mock.UserService{
			FindUserByIDFn: func(context.Context, string) (*readlater.User, error) {
				return nil, errors.New("database is locked")
			},
		}
		w := &importer.Worker{Queue: queue, Consumer: c}

		result, err := w.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, result.Consumed)
		assert.Equal(t, 1, queue.Len())

		c.Users = newConsumer(f).Users
		result, err = w.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Consumed)
		assert.Zero(t, queue.Len())
		assert.Len(t, f.persisted, 1)
	})

	t.Run("acknowledges consumed and permanently failing messages", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		messages := []*readlater.Message{
			{ID: 1, Payload: []byte(`{"userId":"user-1","record":{"url":"https://example.com/a"}}`)},
			{ID: 2, Payload: []byte(`{"userId":"ghost","record":{"url":"https://example.com/b"}}`)},
			{ID: 3, Payload: []byte(`garbage`)},
		}
		var acked, released []int64
		queue := &mock.Queue{
			PopFn: func(context.Context) (*readlater.Message, error) {
				if len(messages) == 0 {
					return nil, readlater.Errorf(readlater.ENOTFOUND, "import queue is empty")
				}
				msg := messages[0]
				messages = messages[1:]
				return msg, nil
			},
			AckFn: func(_ context.Context, msg *readlater.Message) error {
				acked = append(acked, msg.ID)
				return nil
			},
			ReleaseFn: func(_ context.Context, msg *readlater.Message) error {
				released = append(released, msg.ID)
				return nil
			},
		}
		w := &importer.Worker{Queue: queue, Consumer: newConsumer(newFixture()), Concurrency: 1}

		result, err := w.Run(ctx)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Consumed)
		assert.Equal(t, 2, result.Failed)
		assert.ElementsMatch(t, []int64{1, 2, 3}, acked)
		assert.Empty(t, released)
	})

	t.Run("returns pop errors", func(t *testing.T) {
		t.Parallel()

		w := &importer.Worker{
			Queue: &mock.Queue{
				PopFn: func(context.Context) (*readlater.Message, error) {
					return nil, errors.New("database is closed")
				},
			},
			Consumer: newConsumer(newFixture()),
		}

		_, err := w.Run(context.Background())

		require.Error(t, err)
	})
}
