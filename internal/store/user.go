package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store, hashing the plaintext
	// password internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ContactDirectory resolves an owner identity to a contact email address.
// This is the single equality lookup the notification dispatcher performs;
// it requires exactly one matching row.
type ContactDirectory interface {
	// EmailByUserID returns the email bound to the given user ID.
	// Returns ErrUserNotFound if no contact record exists.
	EmailByUserID(ctx context.Context, userID uuid.UUID) (string, error)
}
