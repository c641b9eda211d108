package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists users. Lookups return (nil, nil) when no user
// matches.
type Repository interface {
	// Save persists a user (insert or update).
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername retrieves a user by their exact username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByIdentifier retrieves every user whose username, first name
	// or last name matches the identifier, case-insensitively.
	FindByIdentifier(ctx context.Context, identifier string) ([]*User, error)
}
