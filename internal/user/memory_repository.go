package user

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory user repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[string]*User)}
}

// Get retrieves a user by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	cpy := *u
	return &cpy, nil
}

// GetByEmail retrieves a user by email.
func (r *InMemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindConflict returns a user other than excludeID holding the username or email.
func (r *InMemoryRepository) FindConflict(_ context.Context, username, email, excludeID string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == excludeID {
			continue
		}
		if (username != "" && u.Username == username) ||
			(email != "" && strings.EqualFold(u.Email, email)) {
			cpy := *u
			return &cpy, nil
		}
	}
	return nil, ErrUserNotFound
}

// Find returns users matching the filter, sorted and paginated.
func (r *InMemoryRepository) Find(_ context.Context, filter Filter, opts ListOptions) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*User
	for _, u := range r.users {
		if matches(u, filter) {
			cpy := *u
			matched = append(matched, &cpy)
		}
	}

	sortUsers(matched, opts)
	return paginate(matched, opts.Skip, opts.Limit), nil
}

// Count returns the number of users matching the filter.
func (r *InMemoryRepository) Count(_ context.Context, filter Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, u := range r.users {
		if matches(u, filter) {
			n++
		}
	}
	return n, nil
}

// Create inserts a new user.
func (r *InMemoryRepository) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *u
	r.users[u.ID] = &cpy
	return nil
}

// Update replaces an existing user.
func (r *InMemoryRepository) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID]; !ok {
		return ErrUserNotFound
	}

	cpy := *u
	r.users[u.ID] = &cpy
	return nil
}

// Delete removes a user by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func matches(u *User, f Filter) bool {
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(u.Username), s) &&
			!strings.Contains(strings.ToLower(u.Email), s) {
			return false
		}
	}
	if f.IsActive != nil && u.IsActive != *f.IsActive {
		return false
	}
	if f.CreatedAfter != nil && u.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	return true
}

func sortUsers(users []*User, opts ListOptions) {
	asc := opts.Order == "asc"
	sort.SliceStable(users, func(i, j int) bool {
		var less bool
		var equal bool
		switch opts.SortBy {
		case "username":
			less = users[i].Username < users[j].Username
			equal = users[i].Username == users[j].Username
		case "email":
			less = users[i].Email < users[j].Email
			equal = users[i].Email == users[j].Email
		default:
			less = users[i].CreatedAt.Before(users[j].CreatedAt)
			equal = users[i].CreatedAt.Equal(users[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less && !equal
	})
}

func paginate(users []*User, skip, limit int) []*User {
	if skip >= len(users) {
		return nil
	}
	users = users[skip:]
	if limit > 0 && limit < len(users) {
		users = users[:limit]
	}
	return users
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
