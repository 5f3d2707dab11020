package models

// Habit represents a tracked habit.
type Habit struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Frequency   Frequency `json:"frequency"`
	TargetDays  []string  `json:"targetDays"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

// HabitCreateRequest is the request body for creating a habit.
type HabitCreateRequest struct {
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    Category  `json:"category"`
	Frequency   Frequency `json:"frequency,omitempty"`
	TargetDays  []string  `json:"targetDays,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// HabitUpdateRequest is the request body for updating a habit.
type HabitUpdateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	Frequency   *Frequency `json:"frequency,omitempty"`
	TargetDays  []string   `json:"targetDays,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	Color       *string    `json:"color,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

// PagedHabits is a paginated list of habits.
type PagedHabits struct {
	Items []Habit    `json:"items"`
	Meta  Pagination `json:"pagination"`
}
