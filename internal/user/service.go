package user

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/habitloop/habitloop/internal/api/models"
)

// Validation constants.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

// emailRegex accepts the usual local@domain.tld shape.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// Service provides user account operations.
type Service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get retrieves a user by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := ToAPIUser(u)
	return &result, nil
}

// List returns a page of users matching the filter.
func (s *Service) List(ctx context.Context, filter Filter, page, limit int, sortBy, order string) (*models.PagedUsers, error) {
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

	users, err := s.repo.Find(ctx, filter, ListOptions{
		SortBy: sortBy,
		Order:  order,
		Skip:   (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.User, 0, len(users))
	for _, u := range users {
		items = append(items, ToAPIUser(u))
	}

	return &models.PagedUsers{
		Items: items,
		Meta:  models.NewPagination(page, limit, total),
	}, nil
}

// Register creates a new user account with a hashed password. Preferences
// given at registration time are merged over the defaults.
func (s *Service) Register(ctx context.Context, username, email, password string, prefs *models.PreferencesInput) (*models.User, error) {
	fieldErrors := validateRegistration(username, email, password)
	if prefs != nil {
		fieldErrors = append(fieldErrors, validatePreferences(prefs)...)
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if _, err := s.repo.FindConflict(ctx, username, email, ""); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	preferences := DefaultPreferences()
	if prefs != nil {
		if prefs.Theme != nil {
			preferences.Theme = *prefs.Theme
		}
		if prefs.Notifications != nil {
			preferences.Notifications = *prefs.Notifications
		}
		if prefs.Language != nil {
			preferences.Language = *prefs.Language
		}
	}

	now := time.Now()
	u := &User{
		ID:           "usr_" + uuid.New().String()[:22],
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Preferences:  preferences,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	result := ToAPIUser(u)
	return &result, nil
}

// Update applies a partial update to an existing user.
func (s *Service) Update(ctx context.Context, id string, input *models.UserUpdateRequest) (*models.User, error) {
	u, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := validateUpdate(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Username != nil || input.Email != nil {
		username := u.Username
		if input.Username != nil {
			username = *input.Username
		}
		email := u.Email
		if input.Email != nil {
			email = *input.Email
		}
		if _, err := s.repo.FindConflict(ctx, username, email, u.ID); err == nil {
			return nil, ErrUserExists
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		u.Username = username
		u.Email = email
	}

	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if input.Preferences != nil {
		if input.Preferences.Theme != nil {
			u.Preferences.Theme = *input.Preferences.Theme
		}
		if input.Preferences.Notifications != nil {
			u.Preferences.Notifications = *input.Preferences.Notifications
		}
		if input.Preferences.Language != nil {
			u.Preferences.Language = *input.Preferences.Language
		}
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	result := ToAPIUser(u)
	return &result, nil
}

// Delete removes a user account.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func validateRegistration(username, email, password string) []models.FieldError {
	var errs []models.FieldError

	errs = append(errs, validateUsername(username)...)
	errs = append(errs, validateEmail(email)...)
	errs = append(errs, validatePassword(password)...)

	return errs
}

func validateUpdate(input *models.UserUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Username != nil {
		errs = append(errs, validateUsername(*input.Username)...)
	}
	if input.Email != nil {
		errs = append(errs, validateEmail(*input.Email)...)
	}
	if input.Password != nil {
		errs = append(errs, validatePassword(*input.Password)...)
	}
	if input.Preferences != nil {
		errs = append(errs, validatePreferences(input.Preferences)...)
	}

	return errs
}

func validateUsername(username string) []models.FieldError {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return []models.FieldError{{Field: "username", Message: "must be between 3 and 30 characters"}}
	}
	return nil
}

func validateEmail(email string) []models.FieldError {
	if !emailRegex.MatchString(email) {
		return []models.FieldError{{Field: "email", Message: "must be a valid email address"}}
	}
	return nil
}

func validatePassword(password string) []models.FieldError {
	if len(password) < MinPasswordLength {
		return []models.FieldError{{Field: "password", Message: "must be at least 6 characters"}}
	}
	return nil
}

func validatePreferences(input *models.PreferencesInput) []models.FieldError {
	var errs []models.FieldError

	if input.Theme != nil {
		switch *input.Theme {
		case ThemeLight, ThemeDark, ThemeAuto:
		default:
			errs = append(errs, models.FieldError{Field: "preferences.theme", Message: "must be one of light, dark, auto"})
		}
	}
	if input.Language != nil {
		valid := false
		for _, l := range Languages {
			if l == *input.Language {
				valid = true
				break
			}
		}
		if !valid {
			errs = append(errs, models.FieldError{Field: "preferences.language", Message: "must be one of fr, en, es"})
		}
	}

	return errs
}

// ToAPIUser converts a domain User to its API representation.
func ToAPIUser(u *User) models.User {
	return models.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Preferences: models.Preferences{
			Theme:         u.Preferences.Theme,
			Notifications: u.Preferences.Notifications,
			Language:      u.Preferences.Language,
		},
		IsActive:  u.IsActive,
		CreatedAt: models.Timestamp(u.CreatedAt),
		UpdatedAt: models.Timestamp(u.UpdatedAt),
	}
}
