package models

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	Language      string `json:"language"`
}

// PreferencesInput is the partial-update form of Preferences.
type PreferencesInput struct {
	Theme         *string `json:"theme,omitempty"`
	Notifications *bool   `json:"notifications,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// User represents a user account. The password hash is never included.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   Timestamp   `json:"createdAt"`
	UpdatedAt   Timestamp   `json:"updatedAt"`
}

// UserUpdateRequest is the request body for updating a user.
type UserUpdateRequest struct {
	Username    *string           `json:"username,omitempty"`
	Email       *string           `json:"email,omitempty"`
	Password    *string           `json:"password,omitempty"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
	IsActive    *bool             `json:"isActive,omitempty"`
}

// PagedUsers is a paginated list of users.
type PagedUsers struct {
	Items []User     `json:"items"`
	Meta  Pagination `json:"pagination"`
}
