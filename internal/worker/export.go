package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitloop/habitloop/internal/export"
	"github.com/habitloop/habitloop/internal/user"
)

// ExportJob writes periodic stats snapshots for every user.
type ExportJob struct {
	config   ExportConfig
	logger   zerolog.Logger
	exporter *export.Exporter
	users    user.Repository

	// Metrics
	metrics *ExportMetrics
}

// ExportMetrics tracks export job statistics.
type ExportMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns         int64
	SuccessfulExports int64
	FailedExports     int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// ExportJobConfig holds configuration for creating an ExportJob.
type ExportJobConfig struct {
	Config   ExportConfig
	Logger   zerolog.Logger
	Exporter *export.Exporter
	Users    user.Repository
}

// NewExportJob creates a new export job processor.
func NewExportJob(cfg ExportJobConfig) *ExportJob {
	config := cfg.Config
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultExportConfig().Concurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultExportConfig().Timeout
	}
	if config.Period == "" {
		config.Period = DefaultExportConfig().Period
	}

	return &ExportJob{
		config:   config,
		logger:   cfg.Logger,
		exporter: cfg.Exporter,
		users:    cfg.Users,
		metrics:  &ExportMetrics{},
	}
}

// ExportResult contains the result of an export run.
type ExportResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalUsers int
	Successful int
	Failed     int
	Errors     []ExportError
}

// ExportError represents a failed export for one user.
type ExportError struct {
	UserID string
	Error  string
}

// Run exports stats for all configured users.
func (j *ExportJob) Run(ctx context.Context) *ExportResult {
	startTime := time.Now()
	result := &ExportResult{StartTime: startTime}

	userIDs, err := j.targetUsers(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("failed to list users for export")
		result.Failed = 1
		result.Errors = append(result.Errors, ExportError{Error: err.Error()})
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(startTime)
		return result
	}
	result.TotalUsers = len(userIDs)

	j.logger.Info().
		Int("total_users", result.TotalUsers).
		Int("concurrency", j.config.Concurrency).
		Str("period", string(j.config.Period)).
		Msg("starting stats export job")

	// Create work channels
	idsChan := make(chan string, len(userIDs))
	resultsChan := make(chan userResult, len(userIDs))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.exportWorker(ctx, idsChan, resultsChan)
		}()
	}

	// Send user IDs to workers
	for _, id := range userIDs {
		idsChan <- id
	}
	close(idsChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for ur := range resultsChan {
		if ur.err == nil {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, ExportError{
				UserID: ur.userID,
				Error:  ur.err.Error(),
			})
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("stats export job completed")

	return result
}

// ExportUser exports stats for a single user.
func (j *ExportJob) ExportUser(ctx context.Context, userID string) error {
	userCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	_, err := j.exporter.Export(userCtx, userID, j.config.Period)
	return err
}

type userResult struct {
	userID string
	err    error
}

func (j *ExportJob) exportWorker(ctx context.Context, ids <-chan string, results chan<- userResult) {
	for id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
			results <- userResult{userID: id, err: j.ExportUser(ctx, id)}
		}
	}
}

func (j *ExportJob) targetUsers(ctx context.Context) ([]string, error) {
	filter := user.Filter{}
	if j.config.ActiveOnly {
		active := true
		filter.IsActive = &active
	}

	users, err := j.users.Find(ctx, filter, user.ListOptions{SortBy: "createdAt", Order: "asc"})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func (j *ExportJob) updateMetrics(result *ExportResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulExports += int64(result.Successful)
	j.metrics.FailedExports += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *ExportJob) GetMetrics() ExportMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return ExportMetrics{
		TotalRuns:         j.metrics.TotalRuns,
		SuccessfulExports: j.metrics.SuccessfulExports,
		FailedExports:     j.metrics.FailedExports,
		LastRunAt:         j.metrics.LastRunAt,
		LastRunDuration:   j.metrics.LastRunDuration,
		TotalDuration:     j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *ExportJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":         m.TotalRuns,
		"successful_exports": m.SuccessfulExports,
		"failed_exports":     m.FailedExports,
		"last_run_at":        m.LastRunAt,
		"last_run_duration":  m.LastRunDuration.String(),
		"total_duration":     m.TotalDuration.String(),
	}
}
