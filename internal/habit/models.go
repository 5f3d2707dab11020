// Package habit provides habit management.
package habit

import (
	"errors"
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
)

// Repository and service errors.
var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrOwnerNotFound = errors.New("habit owner not found")
)

// Validation constants.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Defaults applied at the data-model boundary.
const (
	DefaultIcon  = "✓"
	DefaultColor = "#3B82F6"
)

// DefaultTargetDays returns the full week, the default when none are supplied.
func DefaultTargetDays() []string {
	return []string{"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche"}
}

// Habit represents a recurring activity tracked by a user.
// IsActive doubles as the soft-delete marker.
type Habit struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Category    models.Category
	Frequency   models.Frequency
	TargetDays  []string
	Icon        string
	Color       string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidCategory reports whether c is in the configured category set.
func ValidCategory(c models.Category) bool {
	for _, v := range models.Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidFrequency reports whether f is a known frequency.
func ValidFrequency(f models.Frequency) bool {
	for _, v := range models.Frequencies {
		if v == f {
			return true
		}
	}
	return false
}
