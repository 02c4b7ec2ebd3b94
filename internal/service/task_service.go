package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/events"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskService provides task CRUD operations scoped to an owner. Creates
// and updates additionally emit a mutation event for the notification
// pipeline; deletes do not produce notifications.
type TaskService interface {
	// CreateTask creates a new task for the given owner.
	CreateTask(ctx context.Context, userID uuid.UUID, title, dueDate string) (*domain.Task, error)

	// GetTask retrieves one of the owner's tasks by ID.
	// Returns store.ErrTaskNotFound if no such task exists for that owner.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks retrieves all of the owner's tasks, most recent first.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// UpdateTask modifies the title and due date of one of the owner's
	// tasks. Returns store.ErrTaskNotFound if no such task exists.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, title, dueDate string) (*domain.Task, error)

	// DeleteTask removes one of the owner's tasks.
	// Returns store.ErrTaskNotFound if no such task exists.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	emitter   events.Emitter
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, emitter events.Emitter, logger *slog.Logger) TaskService {
	return &TaskServiceImpl{
		taskStore: taskStore,
		emitter:   emitter,
		logger:    logger.With("component", "task_service"),
	}
}

// Ensure TaskServiceImpl implements TaskService
var _ TaskService = (*TaskServiceImpl)(nil)

// CreateTask creates a new task and emits a CREATED event.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	title, dueDate string,
) (*domain.Task, error) {
	task, err := domain.NewTask(userID, title, dueDate)
	if err != nil {
		s.logger.Debug("rejected invalid task",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to save task",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	s.emit(ctx, task, domain.ActionCreated)

	s.logger.Debug("task created",
		"task_id", task.ID,
		"user_id", userID)

	return task, nil
}

// GetTask retrieves one of the owner's tasks by ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("task not found",
				"task_id", taskID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to retrieve task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}

	return task, nil
}

// ListTasks retrieves all of the owner's tasks.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	s.logger.Debug("listed tasks",
		"user_id", userID,
		"count", len(tasks))

	return tasks, nil
}

// UpdateTask modifies an existing task and emits an UPDATED event.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	title, dueDate string,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, userID, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task for update",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve task for update: %w", err)
	}

	if title != "" {
		task.Title = title
	}
	if dueDate != "" {
		task.DueDate = dueDate
	}

	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if err := s.taskStore.Update(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID,
			"user_id", userID)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.emit(ctx, task, domain.ActionUpdated)

	s.logger.Debug("task updated",
		"task_id", taskID,
		"user_id", userID)

	return task, nil
}

// DeleteTask removes a task. No event is emitted for deletions.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, userID, taskID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task",
				"error", err,
				"task_id", taskID,
				"user_id", userID)
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.logger.Debug("task deleted",
		"task_id", taskID,
		"user_id", userID)

	return nil
}

// emit publishes a mutation event. The mutation has already committed, so
// an emission failure is logged and swallowed: the API caller sees a
// successful write, and only the notification is lost.
func (s *TaskServiceImpl) emit(ctx context.Context, task *domain.Task, action domain.Action) {
	event := events.NewTaskMutationEvent(task.UserID, task.ID, action)
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.logger.Error("failed to emit task mutation event",
			"error", err,
			"task_id", task.ID,
			"action", action)
	}
}
