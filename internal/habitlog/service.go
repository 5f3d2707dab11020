package habitlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/habit"
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// HabitGetter resolves habits referenced by logs.
type HabitGetter interface {
	Get(ctx context.Context, id string) (*habit.Habit, error)
}

// Service provides habit log operations.
type Service struct {
	repo   Repository
	habits HabitGetter
}

// NewService creates a new habit log service.
func NewService(repo Repository, habits HabitGetter) *Service {
	return &Service{repo: repo, habits: habits}
}

// Get retrieves a log by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.HabitLog, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := ToAPILog(l)
	return &result, nil
}

// List returns a page of logs matching the filter.
func (s *Service) List(ctx context.Context, filter Filter, page, limit int, sortBy, order string) (*models.PagedHabitLogs, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	logs, err := s.repo.Find(ctx, filter, ListOptions{
		SortBy: sortBy,
		Order:  order,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.HabitLog, 0, len(logs))
	for _, l := range logs {
		items = append(items, ToAPILog(l))
	}

	return &models.PagedHabitLogs{
		Items: items,
		Meta:  models.NewPagination(page, limit, total),
	}, nil
}

// Create records a habit occurrence. The log's user is taken from the habit,
// and at most one log per habit per UTC day is allowed.
func (s *Service) Create(ctx context.Context, input *models.HabitLogCreateRequest) (*models.HabitLog, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	h, err := s.habits.Get(ctx, input.HabitID)
	if err != nil {
		if errors.Is(err, habit.ErrHabitNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}

	now := time.Now()
	date := now
	if input.Date != nil {
		date = input.Date.Time()
	}
	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}

	l := &Log{
		ID:         "log_" + uuid.New().String()[:22],
		HabitID:    h.ID,
		UserID:     h.UserID,
		Date:       date,
		DateString: DateKey(date),
		Completed:  completed,
		Notes:      input.Notes,
		Mood:       input.Mood,
		Duration:   input.Duration,
		Metadata:   toDomainMetadata(input.Metadata),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if l.Mood == "" {
		l.Mood = models.MoodBon
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	result := ToAPILog(l)
	return &result, nil
}

// Update applies a partial update to an existing log. Changing the date
// recomputes the day key and re-checks uniqueness.
func (s *Service) Update(ctx context.Context, id string, input *models.HabitLogUpdateRequest) (*models.HabitLog, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Date != nil {
		l.Date = input.Date.Time()
		l.DateString = DateKey(l.Date)
	}
	if input.Completed != nil {
		l.Completed = *input.Completed
	}
	if input.Notes != nil {
		l.Notes = *input.Notes
	}
	if input.Mood != nil {
		l.Mood = *input.Mood
	}
	if input.Duration != nil {
		l.Duration = input.Duration
	}
	if input.Metadata != nil {
		l.Metadata = toDomainMetadata(input.Metadata)
	}
	l.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	result := ToAPILog(l)
	return &result, nil
}

// Delete removes a log.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateCreateInput(input *models.HabitLogCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.HabitID == "" {
		errs = append(errs, models.FieldError{Field: "habitId", Message: "is required"})
	}
	if len(input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 300 characters"})
	}
	if input.Mood != "" && !ValidMood(input.Mood) {
		errs = append(errs, models.FieldError{Field: "mood", Message: "must be one of excellent, bon, moyen, difficile"})
	}
	if input.Duration != nil && (*input.Duration < 0 || *input.Duration > MaxDurationMin) {
		errs = append(errs, models.FieldError{Field: "duration", Message: "must be between 0 and 1440 minutes"})
	}

	return errs
}

func validateUpdateInput(input *models.HabitLogUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Notes != nil && len(*input.Notes) > MaxNotesLength {
		errs = append(errs, models.FieldError{Field: "notes", Message: "must be at most 300 characters"})
	}
	if input.Mood != nil && *input.Mood != "" && !ValidMood(*input.Mood) {
		errs = append(errs, models.FieldError{Field: "mood", Message: "must be one of excellent, bon, moyen, difficile"})
	}
	if input.Duration != nil && (*input.Duration < 0 || *input.Duration > MaxDurationMin) {
		errs = append(errs, models.FieldError{Field: "duration", Message: "must be between 0 and 1440 minutes"})
	}

	return errs
}

func toDomainMetadata(m *models.LogMetadata) *Metadata {
	if m == nil {
		return nil
	}
	return &Metadata{
		Location:   m.Location,
		Weather:    m.Weather,
		Companions: m.Companions,
	}
}

// ToAPILog converts a domain Log to its API representation.
func ToAPILog(l *Log) models.HabitLog {
	result := models.HabitLog{
		ID:         l.ID,
		HabitID:    l.HabitID,
		UserID:     l.UserID,
		Date:       models.Timestamp(l.Date),
		DateString: l.DateString,
		Completed:  l.Completed,
		Notes:      l.Notes,
		Mood:       l.Mood,
		Duration:   l.Duration,
		CreatedAt:  models.Timestamp(l.CreatedAt),
		UpdatedAt:  models.Timestamp(l.UpdatedAt),
	}
	if l.Metadata != nil {
		result.Metadata = &models.LogMetadata{
			Location:   l.Metadata.Location,
			Weather:    l.Metadata.Weather,
			Companions: l.Metadata.Companions,
		}
	}
	return result
}
