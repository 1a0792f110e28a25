package model

import (
	"errors"
	"strings"
	"time"
)

// User is an account that can post, comment on and contact items.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	PasswordHash string     `json:"-"`
	IsStaff      bool       `json:"is_staff"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// DisplayName returns the full name, falling back to the username.
func (u *User) DisplayName() string {
	return DisplayName(u.FirstName, u.LastName, u.Username)
}

// DisplayName joins first and last name, falling back to username.
func DisplayName(first, last, username string) string {
	if name := strings.TrimSpace(first + " " + last); name != "" {
		return name
	}
	return username
}

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ErrPasswordTooShort is returned by ValidatePassword.
var ErrPasswordTooShort = errors.New("password must be at least 8 characters")

// ValidatePassword checks password strength rules.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Actor is the identity performing a request. The zero value is anonymous.
type Actor struct {
	UserID   int64
	Username string
	IsStaff  bool
}

// Authenticated reports whether the actor is a logged-in user.
func (a Actor) Authenticated() bool { return a.UserID != 0 }
