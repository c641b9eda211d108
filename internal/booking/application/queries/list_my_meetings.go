package queries

import (
	"context"

	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/google/uuid"
)

// ListMyMeetingsQuery contains the parameters for listing the caller's
// own meetings.
type ListMyMeetingsQuery struct {
	OwnerID uuid.UUID
}

// ListMyMeetingsHandler handles the ListMyMeetingsQuery.
type ListMyMeetingsHandler struct {
	repo  domain.Repository
	users identityDomain.Repository
}

// NewListMyMeetingsHandler creates a new ListMyMeetingsHandler.
func NewListMyMeetingsHandler(repo domain.Repository, users identityDomain.Repository) *ListMyMeetingsHandler {
	return &ListMyMeetingsHandler{repo: repo, users: users}
}

// Handle executes the ListMyMeetingsQuery.
func (h *ListMyMeetingsHandler) Handle(ctx context.Context, query ListMyMeetingsQuery) ([]MeetingDTO, error) {
	meetings, err := h.repo.FindByOwnerID(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(ctx, h.users, meetings)
}
