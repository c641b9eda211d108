package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/emZubair/Calendy/internal/booking/application/services"
	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	sharedApplication "github.com/emZubair/Calendy/internal/shared/application"
	"github.com/google/uuid"
)

// startTimeLayouts are the accepted ISO-8601 shapes for start times.
// Malformed input is rejected, never coerced.
var startTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// CreateOrUpdateMeetingCommand contains the data needed to create a
// meeting, or to update one when MeetingID is set.
type CreateOrUpdateMeetingCommand struct {
	OwnerID         uuid.UUID
	MeetingID       *uuid.UUID
	Title           string
	StartTime       string
	DurationMinutes int
}

// CreateOrUpdateMeetingResult contains the created or updated meeting.
type CreateOrUpdateMeetingResult struct {
	Meeting *domain.Meeting
}

// CreateOrUpdateMeetingHandler handles the CreateOrUpdateMeetingCommand.
type CreateOrUpdateMeetingHandler struct {
	repo         domain.Repository
	users        identityDomain.Repository
	availability *services.AvailabilityChecker
	uow          sharedApplication.UnitOfWork
	now          NowFunc
}

// NewCreateOrUpdateMeetingHandler creates a new CreateOrUpdateMeetingHandler.
func NewCreateOrUpdateMeetingHandler(repo domain.Repository, users identityDomain.Repository, availability *services.AvailabilityChecker, uow sharedApplication.UnitOfWork, now NowFunc) *CreateOrUpdateMeetingHandler {
	return &CreateOrUpdateMeetingHandler{
		repo:         repo,
		users:        users,
		availability: availability,
		uow:          uow,
		now:          orSystemClock(now),
	}
}

// Handle executes the CreateOrUpdateMeetingCommand. The availability
// check and the write run inside one unit of work so that two
// concurrent bookings cannot both pass the conflict scan.
func (h *CreateOrUpdateMeetingHandler) Handle(ctx context.Context, cmd CreateOrUpdateMeetingCommand) (*CreateOrUpdateMeetingResult, error) {
	duration := domain.SlotDuration(cmd.DurationMinutes)
	if !duration.IsValid() {
		return nil, domain.ErrInvalidDuration
	}

	startTime, err := parseStartTime(cmd.StartTime)
	if err != nil {
		return nil, err
	}

	var result *CreateOrUpdateMeetingResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		now := h.now()

		if cmd.MeetingID == nil {
			// A meeting can only be created for a registered owner.
			owner, err := h.users.FindByID(txCtx, cmd.OwnerID)
			if err != nil {
				return err
			}
			if owner == nil {
				return identityDomain.ErrUserNotFound
			}

			if err := h.availability.CheckSlot(txCtx, cmd.OwnerID, startTime, uuid.Nil, now); err != nil {
				return err
			}

			meeting, err := domain.NewMeeting(cmd.OwnerID, cmd.Title, startTime, duration)
			if err != nil {
				return err
			}
			if err := h.repo.Save(txCtx, meeting); err != nil {
				return err
			}

			result = &CreateOrUpdateMeetingResult{Meeting: meeting}
			return nil
		}

		meeting, err := h.repo.FindByID(txCtx, *cmd.MeetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			return domain.ErrMeetingNotFound
		}
		if meeting.OwnerID() != cmd.OwnerID {
			return domain.ErrNotOwner
		}

		// The meeting's own slot is excluded so it does not conflict
		// with itself.
		if err := h.availability.CheckSlot(txCtx, cmd.OwnerID, startTime, meeting.ID(), now); err != nil {
			return err
		}

		if err := meeting.SetTitle(cmd.Title); err != nil {
			return err
		}
		if err := meeting.Reschedule(startTime, duration); err != nil {
			return err
		}
		if err := h.repo.Save(txCtx, meeting); err != nil {
			return err
		}

		result = &CreateOrUpdateMeetingResult{Meeting: meeting}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func parseStartTime(value string) (time.Time, error) {
	for _, layout := range startTimeLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, value)
}
