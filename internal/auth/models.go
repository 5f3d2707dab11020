// Package auth provides authentication services for HabitLoop.
package auth

import "github.com/habitloop/habitloop/internal/api/models"

// RegisterRequest represents the request body for account registration.
// Preferences are optional; omitted fields fall back to the defaults.
type RegisterRequest struct {
	Username    string                   `json:"username"`
	Email       string                   `json:"email"`
	Password    string                   `json:"password"`
	Preferences *models.PreferencesInput `json:"preferences,omitempty"`
}

// Validate validates the registration request shape. Field-level rules
// (lengths, email format) are enforced by the user service.
func (r *RegisterRequest) Validate() []models.FieldError {
	var errs []models.FieldError

	if r.Username == "" {
		errs = append(errs, models.FieldError{Field: "username", Message: "is required"})
	}
	if r.Email == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: "is required"})
	}
	if r.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "is required"})
	}

	return errs
}

// LoginRequest represents the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login request.
func (r *LoginRequest) Validate() []models.FieldError {
	var errs []models.FieldError

	if r.Email == "" {
		errs = append(errs, models.FieldError{Field: "email", Message: "is required"})
	}
	if r.Password == "" {
		errs = append(errs, models.FieldError{Field: "password", Message: "is required"})
	}

	return errs
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`

	// User contains the authenticated user's information.
	User *models.User `json:"user"`
}

// RefreshTokenRequest represents the request to refresh an access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate validates the refresh token request.
func (r *RefreshTokenRequest) Validate() []models.FieldError {
	var errs []models.FieldError

	if r.RefreshToken == "" {
		errs = append(errs, models.FieldError{Field: "refreshToken", Message: "is required"})
	}

	return errs
}
