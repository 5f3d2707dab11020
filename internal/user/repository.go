package user

import (
	"context"
	"time"
)

// Filter restricts the set of users returned by Find and Count.
// Zero-value fields are ignored.
type Filter struct {
	// Search matches as a case-insensitive substring of username or email.
	Search string

	// IsActive filters on the active flag when non-nil.
	IsActive *bool

	// CreatedAfter keeps users created on or after the given instant.
	CreatedAfter *time.Time
}

// ListOptions controls sorting and pagination for Find.
type ListOptions struct {
	// SortBy is one of "createdAt", "username", "email". Defaults to "createdAt".
	SortBy string

	// Order is "asc" or "desc". Defaults to "desc".
	Order string

	Skip  int
	Limit int
}

// Repository defines persistence operations for users.
type Repository interface {
	// Get retrieves a user by ID. Returns ErrUserNotFound if missing.
	Get(ctx context.Context, id string) (*User, error)

	// GetByEmail retrieves a user by email. Returns ErrUserNotFound if missing.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// FindConflict returns a user (other than excludeID) holding the given
	// username or email, or ErrUserNotFound when both are free.
	FindConflict(ctx context.Context, username, email, excludeID string) (*User, error)

	// Find returns users matching the filter, sorted and paginated.
	Find(ctx context.Context, filter Filter, opts ListOptions) ([]*User, error)

	// Count returns the number of users matching the filter.
	Count(ctx context.Context, filter Filter) (int, error)

	// Create inserts a new user.
	Create(ctx context.Context, u *User) error

	// Update replaces an existing user. Returns ErrUserNotFound if missing.
	Update(ctx context.Context, u *User) error

	// Delete removes a user by ID.
	Delete(ctx context.Context, id string) error
}
