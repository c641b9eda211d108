package queries

import (
	"context"
	"time"

	"github.com/emZubair/Calendy/internal/booking/domain"
	identityDomain "github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/google/uuid"
)

// NowFunc supplies the current time; passing nil falls back to time.Now.
type NowFunc func() time.Time

func orSystemClock(now NowFunc) NowFunc {
	if now == nil {
		return time.Now
	}
	return now
}

// MeetingDTO is a data transfer object for meetings.
type MeetingDTO struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	OwnerName     string
	Title         string
	StartTime     time.Time
	EndTime       time.Time
	DurationMins  int
	Reserved      bool
	ReserverName  *string
	ReserverEmail *string
}

func newMeetingDTO(meeting *domain.Meeting, ownerName string) MeetingDTO {
	return MeetingDTO{
		ID:            meeting.ID(),
		OwnerID:       meeting.OwnerID(),
		OwnerName:     ownerName,
		Title:         meeting.Title(),
		StartTime:     meeting.StartTime(),
		EndTime:       meeting.EndTime(),
		DurationMins:  int(meeting.Duration()),
		Reserved:      meeting.IsReserved(),
		ReserverName:  meeting.ReserverName(),
		ReserverEmail: meeting.ReserverEmail(),
	}
}

// resolveOwnerNames maps each distinct owner ID in meetings to that
// owner's username. Owners missing from the identity store map to the
// empty string rather than failing the whole listing.
func resolveOwnerNames(ctx context.Context, users identityDomain.Repository, meetings []*domain.Meeting) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	for _, meeting := range meetings {
		if _, seen := names[meeting.OwnerID()]; seen {
			continue
		}
		user, err := users.FindByID(ctx, meeting.OwnerID())
		if err != nil {
			return nil, err
		}
		if user == nil {
			names[meeting.OwnerID()] = ""
			continue
		}
		names[meeting.OwnerID()] = user.Username().String()
	}
	return names, nil
}

func toDTOs(ctx context.Context, users identityDomain.Repository, meetings []*domain.Meeting) ([]MeetingDTO, error) {
	names, err := resolveOwnerNames(ctx, users, meetings)
	if err != nil {
		return nil, err
	}

	dtos := make([]MeetingDTO, 0, len(meetings))
	for _, meeting := range meetings {
		dtos = append(dtos, newMeetingDTO(meeting, names[meeting.OwnerID()]))
	}
	return dtos, nil
}
