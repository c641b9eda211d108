package queries

import (
	"context"

	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
)

// ListMeetingsHandler lists every meeting in the system, reserved and
// past ones included.
type ListMeetingsHandler struct {
	repo  domain.Repository
	users identityDomain.Repository
}

// NewListMeetingsHandler creates a new ListMeetingsHandler.
func NewListMeetingsHandler(repo domain.Repository, users identityDomain.Repository) *ListMeetingsHandler {
	return &ListMeetingsHandler{repo: repo, users: users}
}

// Handle executes the query.
func (h *ListMeetingsHandler) Handle(ctx context.Context) ([]MeetingDTO, error) {
	meetings, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toDTOs(ctx, h.users, meetings)
}
