// Package services contains domain services for the booking context.
package services

import (
	"context"
	"time"

	"github.com/emZubair/Calendy/internal/booking/domain"
	"github.com/google/uuid"
)

// AvailabilityChecker validates candidate slots against an owner's
// existing meetings to prevent double-booking. It is read-only.
type AvailabilityChecker struct {
	repo domain.Repository
}

// NewAvailabilityChecker creates a new AvailabilityChecker.
func NewAvailabilityChecker(repo domain.Repository) *AvailabilityChecker {
	return &AvailabilityChecker{repo: repo}
}

// CheckSlot reports whether the owner can book a slot starting at start.
// The start time must be strictly after now; a start that falls inside an
// existing meeting of the same owner, boundaries included, is a conflict.
// When validating an update, excludeID names the meeting being updated so
// it does not conflict with itself; pass uuid.Nil for creations.
//
// On conflict the returned *domain.ConflictError carries how long until
// the slot frees up, derived from the conflicting meeting that sorts
// first by start time. The hint is advisory only.
func (c *AvailabilityChecker) CheckSlot(ctx context.Context, ownerID uuid.UUID, start time.Time, excludeID uuid.UUID, now time.Time) error {
	if !start.After(now) {
		return domain.ErrPastStartTime
	}

	occupied, err := c.repo.FindByOwnerContaining(ctx, ownerID, start)
	if err != nil {
		return err
	}

	var earliest *domain.Meeting
	for _, meeting := range occupied {
		if meeting.ID() == excludeID {
			continue
		}
		if earliest == nil || meeting.StartTime().Before(earliest.StartTime()) {
			earliest = meeting
		}
	}
	if earliest == nil {
		return nil
	}

	return &domain.ConflictError{
		MeetingID: earliest.ID(),
		FreeIn:    earliest.EndTime().Sub(start),
	}
}
