package importer

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/fwojciec/readlater"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of messages a Worker consumes at once.
const DefaultConcurrency = 4

// WorkerResult counts the outcome of one Worker run.
type WorkerResult struct {
	Consumed int
	Failed   int
	Summary  readlater.Summary
}

// Worker drains a Queue through a Consumer.
type Worker struct {
	Queue       readlater.Queue
	Consumer    *Consumer
	Concurrency int
	Logger      *slog.Logger
}

// Run consumes messages until the queue is empty. A message that fails to
// import is logged and counted; it does not stop the run. Run returns an
// error only when popping fails or ctx ends.
//
// Consumed messages are acknowledged. So are messages that can never
// succeed: undecodable payloads and records of unknown users. Any other
// failure releases the message once the run ends, so the next run retries
// it.
func (w *Worker) Run(ctx context.Context) (*WorkerResult, error) {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var (
		consumed, failed          atomic.Int64
		skipped, imported, queued atomic.Int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var (
		mu     sync.Mutex
		retry  []*readlater.Message
		popErr error
		ackCtx = context.WithoutCancel(ctx)
	)
	for {
		if err := gctx.Err(); err != nil {
			popErr = err
			break
		}
		msg, err := w.Queue.Pop(gctx)
		if readlater.ErrorCode(err) == readlater.ENOTFOUND {
			break
		}
		if err != nil {
			popErr = err
			break
		}

		g.Go(func() error {
			summary, consumeErr := w.Consumer.Consume(gctx, msg.Payload)
			if consumeErr != nil {
				logger.ErrorContext(gctx, "unable to consume message", "id", msg.ID, "err", consumeErr)
				failed.Add(1)
				if !permanent(consumeErr) {
					mu.Lock()
					retry = append(retry, msg)
					mu.Unlock()
					return nil
				}
			}
			if err := w.Queue.Ack(ackCtx, msg); err != nil {
				logger.ErrorContext(gctx, "unable to acknowledge message", "id", msg.ID, "err", err)
			}
			if consumeErr != nil {
				return nil
			}
			consumed.Add(1)
			skipped.Add(int64(summary.Skipped))
			imported.Add(int64(summary.Imported))
			queued.Add(int64(summary.Queued))
			return nil
		})
	}

	_ = g.Wait()
	for _, msg := range retry {
		if err := w.Queue.Release(ackCtx, msg); err != nil {
			logger.ErrorContext(ctx, "unable to release message", "id", msg.ID, "err", err)
		}
	}
	result := &WorkerResult{
		Consumed: int(consumed.Load()),
		Failed:   int(failed.Load()),
		Summary: readlater.Summary{
			Skipped:  int(skipped.Load()),
			Imported: int(imported.Load()),
			Queued:   int(queued.Load()),
		},
	}
	if popErr != nil {
		return result, popErr
	}
	return result, nil
}

// permanent reports whether a consume error will recur on every retry.
func permanent(err error) bool {
	switch readlater.ErrorCode(err) {
	case readlater.EINVALID, readlater.ENOTFOUND:
		return true
	}
	return false
}
