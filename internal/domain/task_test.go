package domain_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

func TestNewTask(t *testing.T) {
	userID := uuid.New()

	t.Run("valid task", func(t *testing.T) {
		task, err := domain.NewTask(userID, "Write report", "2024-06-01")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, task.ID)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, "2024-06-01", task.DueDate)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("due date is optional", func(t *testing.T) {
		task, err := domain.NewTask(userID, "Write report", "")
		require.NoError(t, err)
		assert.Empty(t, task.DueDate)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := domain.NewTask(userID, "", "")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
	})

	t.Run("title too long", func(t *testing.T) {
		_, err := domain.NewTask(userID, strings.Repeat("x", 501), "")
		assert.ErrorIs(t, err, domain.ErrTaskTitleLength)
	})

	t.Run("missing owner", func(t *testing.T) {
		_, err := domain.NewTask(uuid.Nil, "Write report", "")
		assert.ErrorIs(t, err, domain.ErrEmptyTaskUserID)
	})
}

func TestTaskValidate(t *testing.T) {
	task, err := domain.NewTask(uuid.New(), "Write report", "")
	require.NoError(t, err)

	task.ID = uuid.Nil
	assert.ErrorIs(t, task.Validate(), domain.ErrEmptyTaskID)
}

func TestActionValidate(t *testing.T) {
	assert.NoError(t, domain.ActionCreated.Validate())
	assert.NoError(t, domain.ActionUpdated.Validate())
	assert.ErrorIs(t, domain.Action("DELETED").Validate(), domain.ErrInvalidAction)
	assert.ErrorIs(t, domain.Action("").Validate(), domain.ErrInvalidAction)
}
