package domain

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrInvalidUsername = errors.New("username contains invalid characters")
	ErrNameTooLong     = errors.New("name exceeds maximum length")
)

// MaxNameLength is the maximum allowed length for first and last names,
// counted in runes.
const MaxNameLength = 150

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.@+-]+$`)
)

// Email represents a validated email address.
type Email struct {
	value string
}

// NewEmail creates a validated email address.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return Email{}, ErrInvalidEmail
	}
	if !emailRegex.MatchString(value) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: value}, nil
}

// String returns the email string.
func (e Email) String() string {
	return e.value
}

// Equals checks if two emails are equal.
func (e Email) Equals(other Email) bool {
	return e.value == other.value
}

// Username represents a validated login name.
type Username struct {
	value string
}

// NewUsername creates a validated username.
func NewUsername(value string) (Username, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Username{}, ErrEmptyUsername
	}
	if !usernameRegex.MatchString(value) {
		return Username{}, ErrInvalidUsername
	}
	return Username{value: value}, nil
}

// String returns the username string.
func (u Username) String() string {
	return u.value
}

// Equals checks if two usernames are equal.
func (u Username) Equals(other Username) bool {
	return u.value == other.value
}
