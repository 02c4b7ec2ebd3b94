package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/queue"
)

func TestTaskMutationEventWireFormat(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	body, err := NewTaskMutationEvent(userID, taskID, domain.ActionCreated).Encode()
	require.NoError(t, err)

	// The JSON keys are a wire contract shared with every consumer.
	var raw map[string]string
	require.NoError(t, json.Unmarshal(body, &raw))
	assert.Equal(t, userID.String(), raw["userId"])
	assert.Equal(t, taskID.String(), raw["taskId"])
	assert.Equal(t, "CREATED", raw["action"])

	decoded, err := DecodeTaskMutationEvent(body)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), decoded.UserID)
	assert.Equal(t, taskID.String(), decoded.TaskID)
	assert.Equal(t, domain.ActionCreated, decoded.Action)
}

func TestDecodeTaskMutationEventRejectsBadPayloads(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"missing user ID", `{"taskId":"t1","action":"CREATED"}`, ErrMissingUserID},
		{"missing task ID", `{"userId":"u1","action":"UPDATED"}`, ErrMissingTaskID},
		{"unknown action", `{"userId":"u1","taskId":"t1","action":"DELETED"}`, domain.ErrInvalidAction},
		{"empty action", `{"userId":"u1","taskId":"t1"}`, domain.ErrInvalidAction},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeTaskMutationEvent([]byte(tc.body))
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		_, err := DecodeTaskMutationEvent([]byte("{not json"))
		assert.Error(t, err)
	})
}

// stubQueueStore satisfies queue.Store for emitter tests.
type stubQueueStore struct{}

func (stubQueueStore) Save(context.Context, queue.Record) error { return nil }
func (stubQueueStore) UpdateStatus(context.Context, uuid.UUID, queue.Status, string) error {
	return nil
}
func (stubQueueStore) GetPending(context.Context) ([]queue.Record, error) { return nil, nil }

func TestQueueEmitterEmit(t *testing.T) {
	q := queue.New(stubQueueStore{}, 2, slog.Default())
	emitter := NewQueueEmitter(q, slog.Default())

	event := NewTaskMutationEvent(uuid.New(), uuid.New(), domain.ActionUpdated)
	require.NoError(t, emitter.Emit(context.Background(), event))

	rec := <-q.GetChannel()
	decoded, err := DecodeTaskMutationEvent(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestQueueEmitterRejectsInvalidEvent(t *testing.T) {
	q := queue.New(stubQueueStore{}, 2, slog.Default())
	emitter := NewQueueEmitter(q, slog.Default())

	err := emitter.Emit(context.Background(), TaskMutationEvent{TaskID: "t1", Action: domain.ActionCreated})
	assert.ErrorIs(t, err, ErrMissingUserID)

	select {
	case <-q.GetChannel():
		t.Fatal("invalid event should not have been enqueued")
	default:
	}
}

func TestQueueEmitterSurfacesFullQueue(t *testing.T) {
	q := queue.New(stubQueueStore{}, 1, slog.Default())
	emitter := NewQueueEmitter(q, slog.Default())

	first := NewTaskMutationEvent(uuid.New(), uuid.New(), domain.ActionCreated)
	require.NoError(t, emitter.Emit(context.Background(), first))

	second := NewTaskMutationEvent(uuid.New(), uuid.New(), domain.ActionCreated)
	assert.ErrorIs(t, emitter.Emit(context.Background(), second), queue.ErrQueueFull)
}
