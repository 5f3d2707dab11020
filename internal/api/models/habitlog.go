package models

// LogMetadata holds free-form context recorded with a habit log.
type LogMetadata struct {
	Location   string   `json:"location,omitempty"`
	Weather    string   `json:"weather,omitempty"`
	Companions []string `json:"companions,omitempty"`
}

// HabitLog represents one recorded occurrence of a habit on a calendar day.
// DateString is always the UTC YYYY-MM-DD truncation of Date.
type HabitLog struct {
	ID         string       `json:"id"`
	HabitID    string       `json:"habitId"`
	UserID     string       `json:"userId"`
	Date       Timestamp    `json:"date"`
	DateString string       `json:"dateString"`
	Completed  bool         `json:"completed"`
	Notes      string       `json:"notes,omitempty"`
	Mood       Mood         `json:"mood"`
	Duration   *int         `json:"duration,omitempty"`
	Metadata   *LogMetadata `json:"metadata,omitempty"`
	CreatedAt  Timestamp    `json:"createdAt"`
	UpdatedAt  Timestamp    `json:"updatedAt"`
}

// HabitLogCreateRequest is the request body for creating a habit log.
// DateString is derived server-side and cannot be supplied.
type HabitLogCreateRequest struct {
	HabitID   string       `json:"habitId"`
	UserID    string       `json:"userId"`
	Date      *Timestamp   `json:"date,omitempty"`
	Completed *bool        `json:"completed,omitempty"`
	Notes     string       `json:"notes,omitempty"`
	Mood      Mood         `json:"mood,omitempty"`
	Duration  *int         `json:"duration,omitempty"`
	Metadata  *LogMetadata `json:"metadata,omitempty"`
}

// HabitLogUpdateRequest is the request body for updating a habit log.
type HabitLogUpdateRequest struct {
	Date      *Timestamp   `json:"date,omitempty"`
	Completed *bool        `json:"completed,omitempty"`
	Notes     *string      `json:"notes,omitempty"`
	Mood      *Mood        `json:"mood,omitempty"`
	Duration  *int         `json:"duration,omitempty"`
	Metadata  *LogMetadata `json:"metadata,omitempty"`
}

// PagedHabitLogs is a paginated list of habit logs.
type PagedHabitLogs struct {
	Items []HabitLog `json:"items"`
	Meta  Pagination `json:"pagination"`
}
