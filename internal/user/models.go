// Package user provides user account management.
package user

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("username or email already in use")
)

// Theme values for user preferences.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Languages supported in user preferences.
var Languages = []string{"fr", "en", "es"}

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Theme         string
	Notifications bool
	Language      string
}

// DefaultPreferences returns the preferences applied when none are supplied.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		Notifications: true,
		Language:      "fr",
	}
}

// User represents a registered account.
// PasswordHash is a bcrypt hash and is never serialized to the API.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Preferences  Preferences
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
