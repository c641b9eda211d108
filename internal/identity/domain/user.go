package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	sharedDomain "github.com/emZubair/Calendy/internal/shared/domain"
	"github.com/google/uuid"
)

// User represents a registered account that can own meetings. First and
// last names are optional; the username and email are not.
type User struct {
	sharedDomain.BaseEntity
	username  Username
	firstName string
	lastName  string
	email     Email
}

// NewUser creates a new user with the given username and email.
func NewUser(username Username, email Email, firstName, lastName string) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if utf8.RuneCountInString(firstName) > MaxNameLength || utf8.RuneCountInString(lastName) > MaxNameLength {
		return nil, ErrNameTooLong
	}

	return &User{
		BaseEntity: sharedDomain.NewBaseEntity(),
		username:   username,
		firstName:  firstName,
		lastName:   lastName,
		email:      email,
	}, nil
}

// Getters
func (u *User) Username() Username { return u.username }
func (u *User) FirstName() string  { return u.firstName }
func (u *User) LastName() string   { return u.lastName }
func (u *User) Email() Email       { return u.email }

// FullName returns the user's first and last names joined, or the
// username when both are blank.
func (u *User) FullName() string {
	full := strings.TrimSpace(u.firstName + " " + u.lastName)
	if full == "" {
		return u.username.String()
	}
	return full
}

// Matches reports whether the identifier refers to this user. The
// comparison is case-insensitive against the username, first name and
// last name.
func (u *User) Matches(identifier string) bool {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return false
	}
	return strings.ToLower(u.username.String()) == identifier ||
		strings.ToLower(u.firstName) == identifier ||
		strings.ToLower(u.lastName) == identifier
}

// RehydrateUser reconstructs a user from persisted state.
func RehydrateUser(id uuid.UUID, username Username, email Email, firstName, lastName string, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity: sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		username:   username,
		firstName:  firstName,
		lastName:   lastName,
		email:      email,
	}
}
