package habitlog

import (
	"context"
	"time"
)

// Filter narrows log queries. Zero-value fields are ignored.
type Filter struct {
	HabitID   string
	UserID    string
	Completed *bool
	From      *time.Time
	To        *time.Time
}

// ListOptions controls sorting and pagination for Find.
type ListOptions struct {
	// SortBy is one of "date" or "createdAt". Empty means "date".
	SortBy string
	// Order is "asc" or "desc". Empty means "desc".
	Order string
	Skip  int
	Limit int
}

// Repository defines storage operations for habit logs.
type Repository interface {
	// Get returns a log by ID, or ErrLogNotFound.
	Get(ctx context.Context, id string) (*Log, error)

	// GetByHabitAndDate returns the log for a (habit, day) pair,
	// or ErrLogNotFound.
	GetByHabitAndDate(ctx context.Context, habitID, dateString string) (*Log, error)

	// Find returns logs matching the filter.
	Find(ctx context.Context, f Filter, opts ListOptions) ([]*Log, error)

	// Count returns the number of logs matching the filter.
	Count(ctx context.Context, f Filter) (int, error)

	// Create persists a new log. Returns a DuplicateError wrapping
	// ErrDuplicateLog when the (habit, dateString) pair already exists.
	Create(ctx context.Context, l *Log) error

	// Update persists changes to an existing log, or ErrLogNotFound.
	// The same (habit, dateString) uniqueness rule applies.
	Update(ctx context.Context, l *Log) error

	// Delete removes a log, or ErrLogNotFound.
	Delete(ctx context.Context, id string) error

	// DeleteByHabit removes all logs for a habit and returns the count.
	DeleteByHabit(ctx context.Context, habitID string) (int, error)
}
