package habit

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu     sync.RWMutex
	habits map[string]*Habit
}

// NewInMemoryRepository creates a new in-memory habit repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{habits: make(map[string]*Habit)}
}

// Get retrieves a habit by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.habits[id]
	if !ok {
		return nil, ErrHabitNotFound
	}

	cpy := *h
	return &cpy, nil
}

// Find returns habits matching the filter, sorted and paginated.
func (r *InMemoryRepository) Find(_ context.Context, filter Filter, opts ListOptions) ([]*Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Habit
	for _, h := range r.habits {
		if matches(h, filter) {
			cpy := *h
			matched = append(matched, &cpy)
		}
	}

	sortHabits(matched, opts)
	return paginate(matched, opts.Skip, opts.Limit), nil
}

// Count returns the number of habits matching the filter.
func (r *InMemoryRepository) Count(_ context.Context, filter Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, h := range r.habits {
		if matches(h, filter) {
			n++
		}
	}
	return n, nil
}

// Create inserts a new habit.
func (r *InMemoryRepository) Create(_ context.Context, h *Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *h
	r.habits[h.ID] = &cpy
	return nil
}

// Update replaces an existing habit.
func (r *InMemoryRepository) Update(_ context.Context, h *Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.habits[h.ID]; !ok {
		return ErrHabitNotFound
	}

	cpy := *h
	r.habits[h.ID] = &cpy
	return nil
}

// Delete removes a habit by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.habits, id)
	return nil
}

func matches(h *Habit, f Filter) bool {
	if f.UserID != "" && h.UserID != f.UserID {
		return false
	}
	if f.Category != "" && string(h.Category) != f.Category {
		return false
	}
	if f.Frequency != "" && string(h.Frequency) != f.Frequency {
		return false
	}
	if f.IsActive != nil && h.IsActive != *f.IsActive {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(h.Title), s) &&
			!strings.Contains(strings.ToLower(h.Description), s) {
			return false
		}
	}
	if f.CreatedAfter != nil && h.CreatedAt.Before(*f.CreatedAfter) {
		return false
	}
	return true
}

func sortHabits(habits []*Habit, opts ListOptions) {
	asc := opts.Order == "asc"
	sort.SliceStable(habits, func(i, j int) bool {
		var less bool
		var equal bool
		switch opts.SortBy {
		case "title":
			less = habits[i].Title < habits[j].Title
			equal = habits[i].Title == habits[j].Title
		case "category":
			less = habits[i].Category < habits[j].Category
			equal = habits[i].Category == habits[j].Category
		default:
			less = habits[i].CreatedAt.Before(habits[j].CreatedAt)
			equal = habits[i].CreatedAt.Equal(habits[j].CreatedAt)
		}
		if asc {
			return less
		}
		return !less && !equal
	})
}

func paginate(habits []*Habit, skip, limit int) []*Habit {
	if skip >= len(habits) {
		return nil
	}
	habits = habits[skip:]
	if limit > 0 && limit < len(habits) {
		habits = habits[:limit]
	}
	return habits
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
