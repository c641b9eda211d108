package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for meeting persistence.
type Repository interface {
	// Save inserts the meeting or overwrites an existing one with the same id.
	Save(ctx context.Context, meeting *Meeting) error

	// FindByID retrieves a meeting by its id. Returns (nil, nil) when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Meeting, error)

	// FindByOwnerID retrieves all meetings created by the given owner,
	// ordered by start time.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*Meeting, error)

	// FindByOwnerContaining retrieves the owner's meetings whose interval
	// contains the given instant, boundaries included
	// (start_time <= at <= end_time), ordered by start time.
	FindByOwnerContaining(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*Meeting, error)

	// FindAll retrieves every meeting, ordered by start time.
	FindAll(ctx context.Context) ([]*Meeting, error)

	// FindBookable retrieves unreserved meetings starting at or after now,
	// ordered by start time.
	FindBookable(ctx context.Context, now time.Time) ([]*Meeting, error)

	// Delete permanently removes a meeting. Deleting an absent id is not
	// an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
