package commands

import (
	"context"

	"github.com/emZubair/Calendy/internal/booking/domain"
	sharedApplication "github.com/emZubair/Calendy/internal/shared/application"
	"github.com/google/uuid"
)

// DeleteMeetingCommand contains the data needed to delete a meeting.
type DeleteMeetingCommand struct {
	MeetingID uuid.UUID
	UserID    uuid.UUID
}

// DeleteMeetingHandler handles the DeleteMeetingCommand.
type DeleteMeetingHandler struct {
	repo domain.Repository
	uow  sharedApplication.UnitOfWork
}

// NewDeleteMeetingHandler creates a new DeleteMeetingHandler.
func NewDeleteMeetingHandler(repo domain.Repository, uow sharedApplication.UnitOfWork) *DeleteMeetingHandler {
	return &DeleteMeetingHandler{repo: repo, uow: uow}
}

// Handle executes the DeleteMeetingCommand. Only the owner may delete;
// removal is permanent.
func (h *DeleteMeetingHandler) Handle(ctx context.Context, cmd DeleteMeetingCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		meeting, err := h.repo.FindByID(txCtx, cmd.MeetingID)
		if err != nil {
			return err
		}
		if meeting == nil {
			return domain.ErrMeetingNotFound
		}
		if meeting.OwnerID() != cmd.UserID {
			return domain.ErrNotOwner
		}

		return h.repo.Delete(txCtx, cmd.MeetingID)
	})
}
