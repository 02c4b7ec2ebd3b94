package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// Decoding errors for task mutation events.
var (
	ErrMissingUserID = errors.New("event is missing userId")
	ErrMissingTaskID = errors.New("event is missing taskId")
)

// TaskMutationEvent records that a task was created or updated. It is the
// wire payload of a queue record; the field names are part of the queue's
// message contract and must not change.
type TaskMutationEvent struct {
	UserID string        `json:"userId"`
	TaskID string        `json:"taskId"`
	Action domain.Action `json:"action"`
}

// NewTaskMutationEvent builds an event for the given task and action.
func NewTaskMutationEvent(userID, taskID uuid.UUID, action domain.Action) TaskMutationEvent {
	return TaskMutationEvent{
		UserID: userID.String(),
		TaskID: taskID.String(),
		Action: action,
	}
}

// Validate checks that all required event fields are present and the
// action is one of the known values.
func (e TaskMutationEvent) Validate() error {
	if e.UserID == "" {
		return ErrMissingUserID
	}
	if e.TaskID == "" {
		return ErrMissingTaskID
	}
	return e.Action.Validate()
}

// Encode serializes the event to its JSON wire format.
func (e TaskMutationEvent) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeTaskMutationEvent parses and validates a raw queue record body.
func DecodeTaskMutationEvent(body []byte) (TaskMutationEvent, error) {
	var e TaskMutationEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return TaskMutationEvent{}, err
	}
	if err := e.Validate(); err != nil {
		return TaskMutationEvent{}, err
	}
	return e, nil
}

// Emitter defines an interface for components that publish task mutation
// events. This allows services to emit events without direct knowledge of
// the queue implementation.
type Emitter interface {
	// Emit publishes the given event.
	// Returns an error if the event cannot be published.
	Emit(ctx context.Context, event TaskMutationEvent) error
}
