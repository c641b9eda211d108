package queries

import (
	"context"

	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
)

// ListBookableMeetingsHandler lists meetings a guest can still reserve:
// unreserved, and starting at or after now.
type ListBookableMeetingsHandler struct {
	repo  domain.Repository
	users identityDomain.Repository
	now   NowFunc
}

// NewListBookableMeetingsHandler creates a new ListBookableMeetingsHandler.
func NewListBookableMeetingsHandler(repo domain.Repository, users identityDomain.Repository, now NowFunc) *ListBookableMeetingsHandler {
	return &ListBookableMeetingsHandler{repo: repo, users: users, now: orSystemClock(now)}
}

// Handle executes the query.
func (h *ListBookableMeetingsHandler) Handle(ctx context.Context) ([]MeetingDTO, error) {
	meetings, err := h.repo.FindBookable(ctx, h.now())
	if err != nil {
		return nil, err
	}
	return toDTOs(ctx, h.users, meetings)
}
