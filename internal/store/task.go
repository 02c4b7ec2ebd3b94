package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the interface for task data persistence. All lookups
// are scoped to an owner: a task is addressed by (userID, taskID).
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its owner and ID.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListByUser retrieves all tasks owned by the given user, most
	// recently created first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update modifies an existing task's title and due date.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskReader is the read-only subset of TaskStore consumed by the
// notification dispatcher, which never writes.
type TaskReader interface {
	GetByID(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)
}
