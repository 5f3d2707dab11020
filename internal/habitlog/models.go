// Package habitlog provides habit completion log management.
package habitlog

import (
	"errors"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
)

// Repository and service errors.
var (
	ErrLogNotFound   = errors.New("habit log not found")
	ErrHabitNotFound = errors.New("habit not found")

	// ErrDuplicateLog marks a create that collides with an existing
	// (habit, dateString) pair. Use AsDuplicate to recover the existing log.
	ErrDuplicateLog = errors.New("log already exists for this habit and day")
)

// Validation constants.
const (
	MaxNotesLength = 300
	MaxDurationMin = 1440
)

// Metadata holds free-form context recorded with a log.
type Metadata struct {
	Location   string
	Weather    string
	Companions []string
}

// Log represents one recorded occurrence of a habit.
// DateString is the UTC YYYY-MM-DD truncation of Date, recomputed on every
// write and never accepted from input.
type Log struct {
	ID         string
	HabitID    string
	UserID     string
	Date       time.Time
	DateString string
	Completed  bool
	Notes      string
	Mood       models.Mood
	Duration   *int
	Metadata   *Metadata
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DateKey returns the canonical YYYY-MM-DD day key for t, in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DuplicateError carries the existing log that blocked a create.
type DuplicateError struct {
	Existing *Log
}

func (e *DuplicateError) Error() string {
	return ErrDuplicateLog.Error()
}

// Unwrap lets errors.Is(err, ErrDuplicateLog) match.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateLog
}

// AsDuplicate extracts the conflicting log from err, if it is a duplicate error.
func AsDuplicate(err error) (*Log, bool) {
	var d *DuplicateError
	if errors.As(err, &d) {
		return d.Existing, true
	}
	return nil, false
}

// ValidMood reports whether m is a known mood.
func ValidMood(m models.Mood) bool {
	for _, v := range models.Moods {
		if v == m {
			return true
		}
	}
	return false
}
