package habit

import (
	"context"
	"time"
)

// Filter restricts the set of habits returned by Find and Count.
// Zero-value fields are ignored.
type Filter struct {
	// UserID filters on the owning user.
	UserID string

	// Category filters on the habit category.
	Category string

	// Frequency filters on the habit frequency.
	Frequency string

	// IsActive filters on the soft-delete marker when non-nil.
	IsActive *bool

	// Search matches as a case-insensitive substring of title or description.
	Search string

	// CreatedAfter keeps habits created on or after the given instant.
	CreatedAfter *time.Time
}

// ListOptions controls sorting and pagination for Find.
type ListOptions struct {
	// SortBy is one of "createdAt", "title", "category". Defaults to "createdAt".
	SortBy string

	// Order is "asc" or "desc". Defaults to "desc".
	Order string

	Skip  int
	Limit int
}

// Repository defines persistence operations for habits.
type Repository interface {
	// Get retrieves a habit by ID. Returns ErrHabitNotFound if missing.
	Get(ctx context.Context, id string) (*Habit, error)

	// Find returns habits matching the filter, sorted and paginated.
	Find(ctx context.Context, filter Filter, opts ListOptions) ([]*Habit, error)

	// Count returns the number of habits matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// Create inserts a new habit.
	Create(ctx context.Context, h *Habit) error

	// Update replaces an existing habit. Returns ErrHabitNotFound if missing.
	Update(ctx context.Context, h *Habit) error

	// Delete removes a habit by ID. Cascading log removal is the caller's job.
	Delete(ctx context.Context, id string) error
}
