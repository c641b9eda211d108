package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle          = errors.New("meeting title cannot be empty")
	ErrTitleTooLong        = errors.New("meeting title exceeds maximum length")
	ErrInvalidDuration     = errors.New("slot duration must be one of 15, 30 or 45 minutes")
	ErrMalformedTimestamp  = errors.New("start time is not a valid timestamp")
	ErrPastStartTime       = errors.New("start time must be in the future")
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrNotOwner            = errors.New("user does not own this meeting")
	ErrAlreadyReserved     = errors.New("meeting is already reserved")
	ErrMeetingExpired      = errors.New("meeting is already over")
	ErrInvalidReserverData = errors.New("reserver name and email are required")
	ErrInvalidEmail        = errors.New("invalid email address")
)

// ConflictError reports that a candidate slot collides with an existing
// meeting of the same owner. FreeIn is the time until the earliest
// conflicting meeting ends, measured from the candidate start time.
type ConflictError struct {
	MeetingID uuid.UUID
	FreeIn    time.Duration
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot is taken, free again in %.1f minutes", e.FreeIn.Minutes())
}

// IsConflict reports whether err is a scheduling conflict.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
