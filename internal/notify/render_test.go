package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	renderer, err := NewRenderer("https://taskdeck.app")
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 15, 4, 5, 0, time.UTC)

	t.Run("full event", func(t *testing.T) {
		n, err := renderer.Render("CREATED", "task-123", "Write report", "2024-06-01", now)
		require.NoError(t, err)

		assert.Equal(t, "🔔 Task CREATED: Write report", n.Subject)
		assert.Contains(t, n.TextBody, "Your task (“Write report”) was CREATED on 6/1/2024, 3:04:05 PM.")
		assert.Contains(t, n.TextBody, "Due date: 2024-06-01")
		assert.Contains(t, n.HTMLBody, "Task CREATED")
		assert.Contains(t, n.HTMLBody, "Write report")
		assert.Contains(t, n.HTMLBody, `href="https://taskdeck.app/tasks/task-123"`)
	})

	t.Run("blank title falls back to task ID", func(t *testing.T) {
		n, err := renderer.Render("UPDATED", "task-456", "", "", now)
		require.NoError(t, err)

		assert.Equal(t, "🔔 Task UPDATED: task-456", n.Subject)
		assert.Contains(t, n.TextBody, "Your task (“task-456”)")
		assert.Contains(t, n.HTMLBody, "task-456")
	})

	t.Run("blank due date falls back to Not specified", func(t *testing.T) {
		n, err := renderer.Render("CREATED", "task-789", "Pay rent", "", now)
		require.NoError(t, err)

		assert.Contains(t, n.TextBody, "Due date: Not specified")
		assert.Contains(t, n.HTMLBody, "Not specified")
	})

	t.Run("trailing slash trimmed from base URL", func(t *testing.T) {
		slashed, err := NewRenderer("https://taskdeck.app/")
		require.NoError(t, err)

		n, err := slashed.Render("CREATED", "task-1", "x", "", now)
		require.NoError(t, err)
		assert.Contains(t, n.HTMLBody, `href="https://taskdeck.app/tasks/task-1"`)
	})

	t.Run("html escapes title markup", func(t *testing.T) {
		n, err := renderer.Render("UPDATED", "task-2", "<script>alert(1)</script>", "", now)
		require.NoError(t, err)
		assert.NotContains(t, n.HTMLBody, "<script>")
	})
}
