package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/emZubair/Calendy/internal/shared/domain"
	"github.com/google/uuid"
)

// MaxTitleLength is the maximum allowed meeting title length in runes.
const MaxTitleLength = 100

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SlotDuration is a meeting slot length in minutes.
type SlotDuration int

const (
	SlotQuarterHour   SlotDuration = 15
	SlotHalfHour      SlotDuration = 30
	SlotThreeQuarters SlotDuration = 45
)

// IsValid checks if the slot duration is supported.
func (d SlotDuration) IsValid() bool {
	switch d {
	case SlotQuarterHour, SlotHalfHour, SlotThreeQuarters:
		return true
	default:
		return false
	}
}

// Duration returns the slot length as a time.Duration.
func (d SlotDuration) Duration() time.Duration {
	return time.Duration(d) * time.Minute
}

// Meeting represents a bookable meeting slot owned by a user.
// A meeting is reserved once a guest has attached their name and email.
type Meeting struct {
	sharedDomain.BaseEntity
	ownerID       uuid.UUID
	title         string
	startTime     time.Time
	endTime       time.Time
	duration      SlotDuration
	reserverName  *string
	reserverEmail *string
}

// NewMeeting creates a new unreserved meeting. The end time is always
// derived from the start time and slot duration.
func NewMeeting(ownerID uuid.UUID, title string, startTime time.Time, duration SlotDuration) (*Meeting, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if !duration.IsValid() {
		return nil, ErrInvalidDuration
	}

	return &Meeting{
		BaseEntity: sharedDomain.NewBaseEntity(),
		ownerID:    ownerID,
		title:      title,
		startTime:  startTime,
		endTime:    startTime.Add(duration.Duration()),
		duration:   duration,
	}, nil
}

// Getters
func (m *Meeting) OwnerID() uuid.UUID     { return m.ownerID }
func (m *Meeting) Title() string          { return m.title }
func (m *Meeting) StartTime() time.Time   { return m.startTime }
func (m *Meeting) EndTime() time.Time     { return m.endTime }
func (m *Meeting) Duration() SlotDuration { return m.duration }
func (m *Meeting) ReserverName() *string  { return m.reserverName }
func (m *Meeting) ReserverEmail() *string { return m.reserverEmail }

// IsReserved reports whether a guest has reserved this meeting.
func (m *Meeting) IsReserved() bool {
	return m.reserverName != nil
}

// IsOver reports whether the meeting has already ended at the given time.
// A meeting ending exactly at now is not over yet.
func (m *Meeting) IsOver(now time.Time) bool {
	return m.endTime.Before(now)
}

// SetTitle updates the meeting title.
func (m *Meeting) SetTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	m.title = title
	m.Touch()
	return nil
}

// Reschedule moves the meeting to a new start time and slot duration,
// recomputing the end time. Reservation fields are left untouched.
func (m *Meeting) Reschedule(startTime time.Time, duration SlotDuration) error {
	if !duration.IsValid() {
		return ErrInvalidDuration
	}
	m.startTime = startTime
	m.duration = duration
	m.endTime = startTime.Add(duration.Duration())
	m.Touch()
	return nil
}

// Reserve attaches a guest's name and email to the meeting. It fails if
// the meeting is already reserved, already over, or the guest details
// are invalid. Any caller may reserve; no identity is required.
func (m *Meeting) Reserve(name, email string, now time.Time) error {
	if m.IsReserved() {
		return ErrAlreadyReserved
	}
	if m.IsOver(now) {
		return ErrMeetingExpired
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" {
		return ErrInvalidReserverData
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	m.reserverName = &name
	m.reserverEmail = &email
	m.Touch()
	return nil
}

// RehydrateMeeting recreates a meeting from persisted state.
func RehydrateMeeting(
	id uuid.UUID,
	ownerID uuid.UUID,
	title string,
	startTime time.Time,
	endTime time.Time,
	duration SlotDuration,
	reserverName *string,
	reserverEmail *string,
	createdAt time.Time,
	updatedAt time.Time,
) *Meeting {
	return &Meeting{
		BaseEntity:    sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		ownerID:       ownerID,
		title:         title,
		startTime:     startTime,
		endTime:       endTime,
		duration:      duration,
		reserverName:  reserverName,
		reserverEmail: reserverEmail,
	}
}
