package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed     = errors.New("notification queue is closed")
	ErrQueueFull       = errors.New("notification queue is full")
	ErrDuplicateRecord = errors.New("record already queued in this process")
)

// Queue is a buffered record queue backed by a Store. Enqueue persists
// the record before it enters the channel, so a record accepted by
// Enqueue survives a crash and is redelivered on the next start.
type Queue struct {
	store   Store
	records chan Record
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool
	// queued tracks record IDs currently submitted to the channel by this
	// process, so startup recovery never duplicates a live record. The
	// consumer clears entries as records reach a terminal status.
	queued map[uuid.UUID]struct{}
}

// New creates a new queue with the specified buffer size.
func New(store Store, size int, logger *slog.Logger) *Queue {
	return &Queue{
		store:   store,
		records: make(chan Record, size),
		logger:  logger.With("component", "notification_queue"),
		queued:  make(map[uuid.UUID]struct{}),
	}
}

// Enqueue wraps the body in a new record, persists it, and adds it to the
// channel. Returns ErrQueueClosed after Close, or ErrQueueFull when the
// channel buffer is exhausted (the record stays persisted as pending and
// will be recovered on the next start).
func (q *Queue) Enqueue(ctx context.Context, body []byte) error {
	q.mu.Lock()
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return ErrQueueClosed
	}

	rec := NewRecord(body)

	if err := q.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to persist queue record: %w", err)
	}

	// The closed check and the send must share one critical section, or a
	// racing Close could close the channel between them.
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		// Already persisted as pending; it is recovered on the next start.
		return ErrQueueClosed
	}

	select {
	case q.records <- rec:
		q.queued[rec.ID] = struct{}{}
		q.logger.Debug("record enqueued",
			"record_id", rec.ID,
			"queue_len", len(q.records),
			"queue_cap", cap(q.records))
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.records))
	}
}

// Requeue places an already persisted record back on the channel, used
// during recovery. Returns ErrQueueFull if the channel is exhausted, or
// ErrDuplicateRecord if the record was already submitted by this process
// and is still in flight.
func (q *Queue) Requeue(rec Record) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if _, ok := q.queued[rec.ID]; ok {
		return ErrDuplicateRecord
	}

	select {
	case q.records <- rec:
		q.queued[rec.ID] = struct{}{}
		return nil
	default:
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.records))
	}
}

// forget drops the duplicate-suppression entry for a record that reached
// a terminal status.
func (q *Queue) forget(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.queued, id)
}

// Close closes the queue, preventing further record submission. Records
// already in the channel remain readable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.records)
		q.logger.Info("notification queue closed")
	}
}

// GetChannel returns a read-only channel for consuming records.
func (q *Queue) GetChannel() <-chan Record {
	return q.records
}
