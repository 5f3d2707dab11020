package habit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/user"
)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// LogRemover removes all logs attached to a habit. Satisfied by the
// habitlog repository; kept narrow so the dependency stays one-way.
type LogRemover interface {
	DeleteByHabit(ctx context.Context, habitID string) (int, error)
}

// Service provides habit operations.
type Service struct {
	repo  Repository
	users user.Repository
	logs  LogRemover
}

// NewService creates a new habit service.
func NewService(repo Repository, users user.Repository, logs LogRemover) *Service {
	return &Service{repo: repo, users: users, logs: logs}
}

// Get retrieves a habit by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Habit, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := toAPIHabit(h)
	return &result, nil
}

// List returns a page of habits matching the filter.
func (s *Service) List(ctx context.Context, filter Filter, page, limit int, sortBy, order string) (*models.PagedHabits, error) {
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

	habits, err := s.repo.Find(ctx, filter, ListOptions{
		SortBy: sortBy,
		Order:  order,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		items = append(items, toAPIHabit(h))
	}

	return &models.PagedHabits{
		Items: items,
		Meta:  models.NewPagination(page, limit, total),
	}, nil
}

// Create creates a new habit for an existing user.
func (s *Service) Create(ctx context.Context, input *models.HabitCreateRequest) (*models.Habit, error) {
	if fieldErrors := validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if _, err := s.users.Get(ctx, input.UserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, err
	}

	now := time.Now()
	h := &Habit{
		ID:          "hab_" + uuid.New().String()[:22],
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Frequency:   input.Frequency,
		TargetDays:  input.TargetDays,
		Icon:        input.Icon,
		Color:       input.Color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if h.Category == "" {
		h.Category = models.CategoryOther
	}
	if h.Frequency == "" {
		h.Frequency = models.FrequencyDaily
	}
	if len(h.TargetDays) == 0 {
		h.TargetDays = DefaultTargetDays()
	}
	if h.Icon == "" {
		h.Icon = DefaultIcon
	}
	if h.Color == "" {
		h.Color = DefaultColor
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}

	result := toAPIHabit(h)
	return &result, nil
}

// Update applies a partial update to an existing habit.
func (s *Service) Update(ctx context.Context, id string, input *models.HabitUpdateRequest) (*models.Habit, error) {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Title != nil {
		h.Title = *input.Title
	}
	if input.Description != nil {
		h.Description = *input.Description
	}
	if input.Category != nil {
		h.Category = *input.Category
	}
	if input.Frequency != nil {
		h.Frequency = *input.Frequency
	}
	if input.TargetDays != nil {
		h.TargetDays = input.TargetDays
	}
	if input.Icon != nil {
		h.Icon = *input.Icon
	}
	if input.Color != nil {
		h.Color = *input.Color
	}
	if input.IsActive != nil {
		h.IsActive = *input.IsActive
	}
	h.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}

	result := toAPIHabit(h)
	return &result, nil
}

// Archive soft-deletes a habit by clearing its active flag. Logs are kept.
func (s *Service) Archive(ctx context.Context, id string) error {
	h, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	h.IsActive = false
	h.UpdatedAt = time.Now()
	return s.repo.Update(ctx, h)
}

// Delete removes a habit and all of its logs. Returns the number of logs removed.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return 0, err
	}

	removed, err := s.logs.DeleteByHabit(ctx, id)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return 0, err
	}
	return removed, nil
}

func validateCreateInput(input *models.HabitCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.UserID == "" {
		errs = append(errs, models.FieldError{Field: "userId", Message: "is required"})
	}
	if len(input.Title) < MinTitleLength || len(input.Title) > MaxTitleLength {
		errs = append(errs, models.FieldError{Field: "title", Message: "must be between 3 and 100 characters"})
	}
	if len(input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 500 characters"})
	}
	if input.Category != "" && !ValidCategory(input.Category) {
		errs = append(errs, models.FieldError{Field: "category", Message: "is not a known category"})
	}
	if input.Frequency != "" && !ValidFrequency(input.Frequency) {
		errs = append(errs, models.FieldError{Field: "frequency", Message: "must be one of daily, weekly, monthly, custom"})
	}

	return errs
}

func validateUpdateInput(input *models.HabitUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Title != nil && (len(*input.Title) < MinTitleLength || len(*input.Title) > MaxTitleLength) {
		errs = append(errs, models.FieldError{Field: "title", Message: "must be between 3 and 100 characters"})
	}
	if input.Description != nil && len(*input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 500 characters"})
	}
	if input.Category != nil && !ValidCategory(*input.Category) {
		errs = append(errs, models.FieldError{Field: "category", Message: "is not a known category"})
	}
	if input.Frequency != nil && !ValidFrequency(*input.Frequency) {
		errs = append(errs, models.FieldError{Field: "frequency", Message: "must be one of daily, weekly, monthly, custom"})
	}

	return errs
}

func toAPIHabit(h *Habit) models.Habit {
	return models.Habit{
		ID:          h.ID,
		UserID:      h.UserID,
		Title:       h.Title,
		Description: h.Description,
		Category:    h.Category,
		Frequency:   h.Frequency,
		TargetDays:  h.TargetDays,
		Icon:        h.Icon,
		Color:       h.Color,
		IsActive:    h.IsActive,
		CreatedAt:   models.Timestamp(h.CreatedAt),
		UpdatedAt:   models.Timestamp(h.UpdatedAt),
	}
}
