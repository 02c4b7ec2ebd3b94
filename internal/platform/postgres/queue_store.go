package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/queue"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// QueueStore implements the queue.Store interface using PostgreSQL,
// giving the notification queue durability across restarts.
type QueueStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewQueueStore creates a new QueueStore.
func NewQueueStore(db store.DBTX, logger *slog.Logger) *QueueStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &QueueStore{
		db:     db,
		logger: logger.With(slog.String("component", "queue_store")),
	}
}

// Ensure QueueStore implements queue.Store
var _ queue.Store = (*QueueStore)(nil)

// Save persists a new queue record.
func (s *QueueStore) Save(ctx context.Context, rec queue.Record) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO notifications (id, body, status, note, enqueued_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Body,
		rec.Status,
		"",
		rec.EnqueuedAt,
		now,
	)

	if err != nil {
		log.Error("failed to save queue record",
			slog.String("record_id", rec.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to save queue record: %w", err)
	}

	return nil
}

// UpdateStatus updates the status of a queue record. A missing record is
// treated as a no-op so redelivered duplicates never error.
func (s *QueueStore) UpdateStatus(ctx context.Context, id uuid.UUID, status queue.Status, note string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notifications
		SET status = $1, note = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		note,
		time.Now().UTC(),
		id,
	)

	if err != nil {
		log.Error("failed to update queue record status",
			slog.String("record_id", id.String()),
			slog.String("status", string(status)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to update queue record status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("record_id", id.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no queue record found to update",
			slog.String("record_id", id.String()))
		return nil
	}

	return nil
}

// GetPending retrieves all records with "pending" or "processing" status,
// oldest first. Processing records are included because a crash mid-batch
// leaves them behind; redelivering them is the at-least-once contract.
func (s *QueueStore) GetPending(ctx context.Context) ([]queue.Record, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, body, status, enqueued_at
		FROM notifications
		WHERE status = $1 OR status = $2
		ORDER BY enqueued_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, queue.StatusPending, queue.StatusProcessing)
	if err != nil {
		log.Error("failed to query pending queue records",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to query pending queue records: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var records []queue.Record
	for rows.Next() {
		var rec queue.Record

		if err := rows.Scan(&rec.ID, &rec.Body, &rec.Status, &rec.EnqueuedAt); err != nil {
			log.Error("failed to scan queue record row",
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to scan queue record row: %w", err)
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating queue record rows",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating queue record rows: %w", err)
	}

	return records, nil
}
