package commands

import (
	"context"

	"github.com/emZubair/Calendy/internal/booking/domain"
	sharedApplication "github.com/emZubair/Calendy/internal/shared/application"
	"github.com/google/uuid"
)

// ReserveMeetingCommand contains the guest details for reserving a
// meeting. No caller identity is required; this is the guest path.
type ReserveMeetingCommand struct {
	MeetingID     uuid.UUID
	ReserverName  string
	ReserverEmail string
}

// ReserveMeetingResult contains the reserved meeting.
type ReserveMeetingResult struct {
	Meeting *domain.Meeting
}

// ReserveMeetingHandler handles the ReserveMeetingCommand.
type ReserveMeetingHandler struct {
	repo domain.Repository
	uow  sharedApplication.UnitOfWork
	now  NowFunc
}

// NewReserveMeetingHandler creates a new ReserveMeetingHandler.
func NewReserveMeetingHandler(repo domain.Repository, uow sharedApplication.UnitOfWork, now NowFunc) *ReserveMeetingHandler {
	return &ReserveMeetingHandler{
		repo: repo,
		uow:  uow,
		now:  orSystemClock(now),
	}
}

// Handle executes the ReserveMeetingCommand.
func (h *ReserveMeetingHandler) Handle(ctx context.Context, cmd ReserveMeetingCommand) (*ReserveMeetingResult, error) {
	var result *ReserveMeetingResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		meeting, err := h.repo.FindByID(txCtx, cmd.MeetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			return domain.ErrMeetingNotFound
		}

		if err := meeting.Reserve(cmd.ReserverName, cmd.ReserverEmail, h.now()); err != nil {
			return err
		}
		if err := h.repo.Save(txCtx, meeting); err != nil {
			return err
		}

		result = &ReserveMeetingResult{Meeting: meeting}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
