package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/readlater"
)

// Compile-time interface verification.
var _ readlater.Queue = (*ImportQueue)(nil)

// DefaultQueueName is the queue the CLI publishes imports to.
const DefaultQueueName = "import"

// DefaultLeaseTimeout is how long a popped message stays hidden before
// another Pop may take it again.
const DefaultLeaseTimeout = 10 * time.Minute

// ImportQueue is a durable FIFO queue stored in the import_queue table.
// Several named queues share the table.
//
// Pop leases a message instead of deleting it. The row is deleted by Ack,
// returned by Release, or becomes available again once the lease expires,
// so a worker that dies mid-import does not lose the message.
type ImportQueue struct {
	db   *DB
	name string

	// LeaseTimeout defaults to DefaultLeaseTimeout.
	LeaseTimeout time.Duration
}

// NewImportQueue creates a queue named name.
func NewImportQueue(db *DB, name string) *ImportQueue {
	return &ImportQueue{db: db, name: name, LeaseTimeout: DefaultLeaseTimeout}
}

// Publish appends payload to the queue.
func (q *ImportQueue) Publish(ctx context.Context, payload []byte) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO import_queue (queue, payload, created_at)
		VALUES (?, ?, ?)
	`, q.name, payload, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Pop leases the oldest message that is not leased or whose lease expired.
func (q *ImportQueue) Pop(ctx context.Context) (*readlater.Message, error) {
	now := time.Now().UTC()
	var msg readlater.Message
	err := q.db.QueryRowContext(ctx, `
		UPDATE import_queue SET leased_at = ?
		WHERE id = (
			SELECT id FROM import_queue
			WHERE queue = ? AND (leased_at IS NULL OR leased_at < ?)
			ORDER BY id LIMIT 1
		)
		RETURNING id, payload
	`, now.Format(time.RFC3339), q.name, now.Add(-q.LeaseTimeout).Format(time.RFC3339)).Scan(&msg.ID, &msg.Payload)

	if err == sql.ErrNoRows {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "queue %s is empty", q.name)
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// Ack deletes a consumed message.
func (q *ImportQueue) Ack(ctx context.Context, msg *readlater.Message) error {
	_, err := q.db.ExecContext(ctx, "DELETE FROM import_queue WHERE id = ? AND queue = ?", msg.ID, q.name)
	return err
}

// Release clears the lease on msg so the next Pop can take it.
func (q *ImportQueue) Release(ctx context.Context, msg *readlater.Message) error {
	_, err := q.db.ExecContext(ctx, "UPDATE import_queue SET leased_at = NULL WHERE id = ? AND queue = ?", msg.ID, q.name)
	return err
}

// Len returns the number of messages in the queue, leased ones included.
func (q *ImportQueue) Len(ctx context.Context) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM import_queue WHERE queue = ?", q.name).Scan(&n)
	return n, err
}
