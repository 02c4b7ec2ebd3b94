package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/queue"
)

// QueueEmitter publishes task mutation events onto the durable
// notification queue.
type QueueEmitter struct {
	queue  *queue.Queue
	logger *slog.Logger
}

// NewQueueEmitter creates a new QueueEmitter writing to the given queue.
func NewQueueEmitter(q *queue.Queue, logger *slog.Logger) *QueueEmitter {
	return &QueueEmitter{
		queue:  q,
		logger: logger.With("component", "queue_emitter"),
	}
}

// Ensure QueueEmitter implements Emitter
var _ Emitter = (*QueueEmitter)(nil)

// Emit serializes the event and enqueues it. A full or closed queue is
// surfaced to the caller; the triggering mutation has already committed,
// so callers typically log the failure rather than roll back.
func (e *QueueEmitter) Emit(ctx context.Context, event TaskMutationEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("refusing to emit invalid event: %w", err)
	}

	body, err := event.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := e.queue.Enqueue(ctx, body); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}

	e.logger.Debug("event emitted",
		"task_id", event.TaskID,
		"action", event.Action)
	return nil
}
