// Package models provides request and response models for the HabitLoop API.
package models

import "time"

// Category represents a habit category.
type Category string

// Habit categories. The set is configurable at the data-model boundary;
// these are the defaults.
const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategoryFinance      Category = "finance"
	CategoryPersonal     Category = "personal"
	CategoryOther        Category = "other"
)

// Categories lists the accepted habit categories.
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryProductivity,
	CategoryLearning,
	CategoryFinance,
	CategoryPersonal,
	CategoryOther,
}

// Frequency represents how often a habit is meant to be performed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyCustom  Frequency = "custom"
)

// Frequencies lists the accepted habit frequencies.
var Frequencies = []Frequency{
	FrequencyDaily,
	FrequencyWeekly,
	FrequencyMonthly,
	FrequencyCustom,
}

// Mood represents the mood recorded alongside a habit log.
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodBon       Mood = "bon"
	MoodMoyen     Mood = "moyen"
	MoodDifficile Mood = "difficile"
)

// Moods lists the accepted log moods.
var Moods = []Mood{MoodExcellent, MoodBon, MoodMoyen, MoodDifficile}

// Period represents a statistics reporting period.
type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// Pagination contains pagination metadata for list responses.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Total       int `json:"total"`
	Limit       int `json:"limit"`
}

// NewPagination computes pagination metadata for a page of results.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
		Limit:       limit,
	}
}

// HealthStatus represents the health status of a service.
type HealthStatus string

const (
	HealthStatusOK   HealthStatus = "OK"
	HealthStatusFail HealthStatus = "FAIL"
)

// Timestamp is a helper type for time.Time with custom JSON formatting.
type Timestamp time.Time

// MarshalJSON implements json.Marshaler for Timestamp.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(time.RFC3339) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	// Remove quotes
	s := string(data[1 : len(data)-1])
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}
