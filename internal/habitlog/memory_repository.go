package habitlog

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu   sync.RWMutex
	logs map[string]*Log
	// byDay maps "habitID|dateString" to log ID, enforcing uniqueness.
	byDay map[string]string
}

// NewInMemoryRepository creates a new in-memory log repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		logs:  make(map[string]*Log),
		byDay: make(map[string]string),
	}
}

// Get retrieves a log by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.logs[id]
	if !ok {
		return nil, ErrLogNotFound
	}
	return copyLog(l), nil
}

// GetByHabitAndDate retrieves the log for a (habit, day) pair.
func (r *InMemoryRepository) GetByHabitAndDate(_ context.Context, habitID, dateString string) (*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[dayKey(habitID, dateString)]
	if !ok {
		return nil, ErrLogNotFound
	}
	return copyLog(r.logs[id]), nil
}

// Find returns logs matching the filter, sorted and paginated.
func (r *InMemoryRepository) Find(_ context.Context, filter Filter, opts ListOptions) ([]*Log, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Log
	for _, l := range r.logs {
		if logMatches(l, filter) {
			matched = append(matched, copyLog(l))
		}
	}

	sortLogs(matched, opts)
	return paginate(matched, opts.Skip, opts.Limit), nil
}

// Count returns the number of logs matching the filter.
func (r *InMemoryRepository) Count(_ context.Context, filter Filter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, l := range r.logs {
		if logMatches(l, filter) {
			n++
		}
	}
	return n, nil
}

// Create inserts a new log, rejecting (habit, day) duplicates.
func (r *InMemoryRepository) Create(_ context.Context, l *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := dayKey(l.HabitID, l.DateString)
	if existingID, ok := r.byDay[key]; ok {
		return &DuplicateError{Existing: copyLog(r.logs[existingID])}
	}

	r.logs[l.ID] = copyLog(l)
	r.byDay[key] = l.ID
	return nil
}

// Update replaces an existing log, keeping the day index consistent.
func (r *InMemoryRepository) Update(_ context.Context, l *Log) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.logs[l.ID]
	if !ok {
		return ErrLogNotFound
	}

	key := dayKey(l.HabitID, l.DateString)
	if existingID, ok := r.byDay[key]; ok && existingID != l.ID {
		return &DuplicateError{Existing: copyLog(r.logs[existingID])}
	}

	delete(r.byDay, dayKey(prev.HabitID, prev.DateString))
	r.logs[l.ID] = copyLog(l)
	r.byDay[key] = l.ID
	return nil
}

// Delete removes a log by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.logs[id]
	if !ok {
		return ErrLogNotFound
	}

	delete(r.byDay, dayKey(l.HabitID, l.DateString))
	delete(r.logs, id)
	return nil
}

// DeleteByHabit removes all logs for a habit.
func (r *InMemoryRepository) DeleteByHabit(_ context.Context, habitID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, l := range r.logs {
		if l.HabitID == habitID {
			delete(r.byDay, dayKey(l.HabitID, l.DateString))
			delete(r.logs, id)
			n++
		}
	}
	return n, nil
}

func dayKey(habitID, dateString string) string {
	return habitID + "|" + dateString
}

func copyLog(l *Log) *Log {
	cpy := *l
	if l.Duration != nil {
		d := *l.Duration
		cpy.Duration = &d
	}
	if l.Metadata != nil {
		m := *l.Metadata
		m.Companions = append([]string(nil), l.Metadata.Companions...)
		cpy.Metadata = &m
	}
	return &cpy
}

func logMatches(l *Log, f Filter) bool {
	if f.HabitID != "" && l.HabitID != f.HabitID {
		return false
	}
	if f.UserID != "" && l.UserID != f.UserID {
		return false
	}
	if f.Completed != nil && l.Completed != *f.Completed {
		return false
	}
	if f.From != nil && l.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && l.Date.After(*f.To) {
		return false
	}
	return true
}

func sortLogs(logs []*Log, opts ListOptions) {
	asc := opts.Order == "asc"
	sort.SliceStable(logs, func(i, j int) bool {
		var less bool
		var equal bool
		switch opts.SortBy {
		case "createdAt":
			less = logs[i].CreatedAt.Before(logs[j].CreatedAt)
			equal = logs[i].CreatedAt.Equal(logs[j].CreatedAt)
		default:
			less = logs[i].Date.Before(logs[j].Date)
			equal = logs[i].Date.Equal(logs[j].Date)
		}
		if asc {
			return less
		}
		return !less && !equal
	})
}

func paginate(logs []*Log, skip, limit int) []*Log {
	if skip >= len(logs) {
		return nil
	}
	logs = logs[skip:]
	if limit > 0 && limit < len(logs) {
		logs = logs[:limit]
	}
	return logs
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
