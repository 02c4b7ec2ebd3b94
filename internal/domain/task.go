package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTaskUserID = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle  = errors.New("task title cannot be empty")
	ErrTaskTitleLength = errors.New("task title must be at most 500 characters")
)

// Task represents a single to-do item owned by a user. The user ID is the
// partition key for all task lookups; tasks from different users never
// collide even when their titles match.
type Task struct {
	ID     uuid.UUID `json:"taskId"`
	UserID uuid.UUID `json:"userId"`
	Title  string    `json:"title"`

	// DueDate is a free-form date string supplied by the client
	// (e.g. "2024-06-01"). It is optional; notification rendering
	// substitutes a placeholder when it is blank.
	DueDate string `json:"dueDate,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTask creates a new Task for the given owner with a generated ID and
// current timestamps. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, dueDate string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		DueDate:   dueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > 500 {
		return ErrTaskTitleLength
	}

	return nil
}
