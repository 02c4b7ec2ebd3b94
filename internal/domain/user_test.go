package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

func TestNewUser(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid user", email: "u1@example.com", password: "correct horse battery"},
		{name: "empty email", email: "", password: "correct horse battery", wantErr: domain.ErrEmptyEmail},
		{name: "email without at", email: "u1.example.com", password: "correct horse battery", wantErr: domain.ErrInvalidEmail},
		{name: "email without domain dot", email: "u1@example", password: "correct horse battery", wantErr: domain.ErrInvalidEmail},
		{name: "password too short", email: "u1@example.com", password: "short", wantErr: domain.ErrPasswordTooShort},
		{name: "password too long", email: "u1@example.com", password: strings.Repeat("p", 73), wantErr: domain.ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := domain.NewUser(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	user, err := domain.NewUser("u1@example.com", "correct horse battery")
	require.NoError(t, err)

	// A user loaded from the store has no plaintext password, only a hash.
	user.Password = ""
	user.HashedPassword = "$2a$10$abcdefghijklmnopqrstuv"
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), domain.ErrEmptyPassword)
}
