// Package worker provides background job processing for HabitLoop.
package worker

import (
	"time"

	"github.com/habitloop/habitloop/internal/api/models"
)

// ExportConfig holds configuration for the stats export job.
type ExportConfig struct {
	// Period is the calendar period included in each export.
	// Default: monthly.
	Period models.Period

	// Concurrency is the number of concurrent export operations.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for each user's export.
	// Default: 30 seconds
	Timeout time.Duration

	// ActiveOnly restricts the job to active user accounts.
	// Default: true
	ActiveOnly bool
}

// DefaultExportConfig returns the default export configuration.
func DefaultExportConfig() ExportConfig {
	return ExportConfig{
		Period:      models.PeriodMonthly,
		Concurrency: 3,
		Timeout:     30 * time.Second,
		ActiveOnly:  true,
	}
}
