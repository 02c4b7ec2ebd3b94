package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status represents the delivery state of a queued record.
type Status string

// Possible record status values. Pending records are recovered and
// re-enqueued on startup; delivered and abandoned are terminal.
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusAbandoned  Status = "abandoned"
)

// Record is one opaque queued message. The queue does not interpret the
// body; decoding is the consumer's concern.
type Record struct {
	ID         uuid.UUID
	Body       []byte
	Status     Status
	EnqueuedAt time.Time
}

// NewRecord creates a pending Record wrapping the given body.
func NewRecord(body []byte) Record {
	return Record{
		ID:         uuid.New(),
		Body:       body,
		Status:     StatusPending,
		EnqueuedAt: time.Now().UTC(),
	}
}

// Store defines the interface for persisting queue records, giving the
// queue durability across restarts.
type Store interface {
	// Save persists a new record.
	Save(ctx context.Context, rec Record) error

	// UpdateStatus updates the status of a record. The note carries a
	// human-readable reason for abandoned records.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, note string) error

	// GetPending retrieves all records with "pending" or "processing"
	// status, oldest first, for recovery after a restart.
	GetPending(ctx context.Context) ([]Record, error)
}

// Handler consumes one batch of records. Implementations must return
// exactly one terminal status (StatusDelivered or StatusAbandoned) per
// record, in input order, and must never let one record's failure abort
// the rest of the batch.
type Handler interface {
	HandleBatch(ctx context.Context, records []Record) []Status
}
