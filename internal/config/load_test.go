package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// setRequiredEnv sets the environment variables without defaults that
// Load needs to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TASKDECK_DATABASE_URL", "postgres://localhost:5432/taskdeck")
	t.Setenv("TASKDECK_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TASKDECK_SERVER_PORT", "9999")
	t.Setenv("TASKDECK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("TASKDECK_MAIL_FROM_ADDRESS", "notify@example.com")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "postgres://localhost:5432/taskdeck", cfg.Database.URL)
	assert.Equal(t, "notify@example.com", cfg.Mail.FromAddress)
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 100, cfg.Queue.BufferSize)
	assert.Equal(t, 10, cfg.Queue.BatchSize)
	assert.Equal(t, 500, cfg.Queue.FlushIntervalMillis)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env: map[string]string{
				"TASKDECK_AUTH_JWT_SECRET": "0123456789abcdef0123456789abcdef",
			},
		},
		{
			name: "jwt secret too short",
			env: map[string]string{
				"TASKDECK_DATABASE_URL":    "postgres://localhost:5432/taskdeck",
				"TASKDECK_AUTH_JWT_SECRET": "short",
			},
		},
		{
			name: "invalid log level",
			env: map[string]string{
				"TASKDECK_DATABASE_URL":     "postgres://localhost:5432/taskdeck",
				"TASKDECK_AUTH_JWT_SECRET":  "0123456789abcdef0123456789abcdef",
				"TASKDECK_SERVER_LOG_LEVEL": "verbose",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
