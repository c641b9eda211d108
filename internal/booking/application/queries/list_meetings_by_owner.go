package queries

import (
	"context"
	"sort"

	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
)

// ListMeetingsByOwnerQuery contains the parameters for listing meetings
// owned by users matching an identifier. The identifier is compared
// case-insensitively against usernames, first names and last names; an
// unknown identifier yields an empty list, not an error.
type ListMeetingsByOwnerQuery struct {
	Identifier string
}

// ListMeetingsByOwnerHandler handles the ListMeetingsByOwnerQuery.
type ListMeetingsByOwnerHandler struct {
	repo  domain.Repository
	users identityDomain.Repository
}

// NewListMeetingsByOwnerHandler creates a new ListMeetingsByOwnerHandler.
func NewListMeetingsByOwnerHandler(repo domain.Repository, users identityDomain.Repository) *ListMeetingsByOwnerHandler {
	return &ListMeetingsByOwnerHandler{repo: repo, users: users}
}

// Handle executes the ListMeetingsByOwnerQuery.
func (h *ListMeetingsByOwnerHandler) Handle(ctx context.Context, query ListMeetingsByOwnerQuery) ([]MeetingDTO, error) {
	owners, err := h.users.FindByIdentifier(ctx, query.Identifier)
	if err != nil {
		return nil, err
	}

	var meetings []*domain.Meeting
	for _, owner := range owners {
		owned, err := h.repo.FindByOwnerID(ctx, owner.ID())
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, owned...)
	}

	sort.Slice(meetings, func(i, j int) bool {
		return meetings[i].StartTime().Before(meetings[j].StartTime())
	})

	return toDTOs(ctx, h.users, meetings)
}
