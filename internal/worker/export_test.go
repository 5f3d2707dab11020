package worker_test

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/export"
	"github.com/habitloop/habitloop/internal/habit"
	"github.com/habitloop/habitloop/internal/habitlog"
	"github.com/habitloop/habitloop/internal/stats"
	"github.com/habitloop/habitloop/internal/user"
	"github.com/habitloop/habitloop/internal/worker"
)

func TestDefaultExportConfig(t *testing.T) {
	cfg := worker.DefaultExportConfig()

	assert.Equal(t, models.PeriodMonthly, cfg.Period)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.True(t, cfg.ActiveOnly)
}

// testExportJob wires an export job over in-memory repositories.
func testExportJob(t *testing.T, cfg worker.ExportConfig) (*worker.ExportJob, user.Repository) {
	t.Helper()

	userRepo := user.NewInMemoryRepository()
	habitRepo := habit.NewInMemoryRepository()
	logRepo := habitlog.NewInMemoryRepository()

	exporter := export.NewExporter(export.Config{
		Stats:     stats.NewService(userRepo, habitRepo, logRepo),
		Directory: t.TempDir(),
		Logger:    zerolog.New(io.Discard),
	})

	job := worker.NewExportJob(worker.ExportJobConfig{
		Config:   cfg,
		Logger:   zerolog.Nop(),
		Exporter: exporter,
		Users:    userRepo,
	})

	return job, userRepo
}

func seedUser(t *testing.T, repo user.Repository, username string, active bool) string {
	t.Helper()

	id := "usr_" + uuid.New().String()[:22]
	now := time.Now()
	err := repo.Create(context.Background(), &user.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Preferences:  user.DefaultPreferences(),
		IsActive:     active,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	return id
}

func TestExportJob_Run_NoUsers(t *testing.T) {
	job, _ := testExportJob(t, worker.DefaultExportConfig())

	result := job.Run(context.Background())

	assert.NotNil(t, result)
	assert.Equal(t, 0, result.TotalUsers)
	assert.Equal(t, 0, result.Failed)
}

func TestExportJob_Run(t *testing.T) {
	job, userRepo := testExportJob(t, worker.DefaultExportConfig())

	seedUser(t, userRepo, "alice", true)
	seedUser(t, userRepo, "bob", true)

	result := job.Run(context.Background())

	assert.Equal(t, 2, result.TotalUsers)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestExportJob_Run_SkipsInactiveUsers(t *testing.T) {
	job, userRepo := testExportJob(t, worker.DefaultExportConfig())

	seedUser(t, userRepo, "alice", true)
	seedUser(t, userRepo, "ghost", false)

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.TotalUsers)
	assert.Equal(t, 1, result.Successful)
}

func TestExportJob_Run_WithConcurrency(t *testing.T) {
	cfg := worker.DefaultExportConfig()
	cfg.Concurrency = 4

	job, userRepo := testExportJob(t, cfg)

	for i := 0; i < 10; i++ {
		seedUser(t, userRepo, "user"+string(rune('a'+i)), true)
	}

	result := job.Run(context.Background())

	assert.Equal(t, 10, result.TotalUsers)
	assert.Equal(t, 10, result.Successful)
}

func TestExportJob_Run_ContextCancellation(t *testing.T) {
	job, userRepo := testExportJob(t, worker.DefaultExportConfig())

	for i := 0; i < 20; i++ {
		seedUser(t, userRepo, "user"+string(rune('a'+i)), true)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := job.Run(ctx)

	// Should complete (even if not all users processed)
	assert.NotNil(t, result)
}

func TestExportJob_ExportUser(t *testing.T) {
	job, userRepo := testExportJob(t, worker.DefaultExportConfig())

	id := seedUser(t, userRepo, "alice", true)

	err := job.ExportUser(context.Background(), id)
	assert.NoError(t, err)
}

func TestExportJob_ExportUser_Unknown(t *testing.T) {
	job, _ := testExportJob(t, worker.DefaultExportConfig())

	err := job.ExportUser(context.Background(), "usr_missing")
	assert.Error(t, err)
}

func TestExportJob_GetMetrics(t *testing.T) {
	job, userRepo := testExportJob(t, worker.DefaultExportConfig())

	seedUser(t, userRepo, "alice", true)

	_ = job.Run(context.Background())

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.SuccessfulExports)
	assert.NotZero(t, metrics.LastRunAt)
	assert.Greater(t, metrics.LastRunDuration, time.Duration(0))
}

func TestExportJob_MetricsSnapshot(t *testing.T) {
	job, _ := testExportJob(t, worker.DefaultExportConfig())

	_ = job.Run(context.Background())

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "successful_exports")
	assert.Contains(t, snapshot, "failed_exports")
	assert.Contains(t, snapshot, "last_run_at")
	assert.Contains(t, snapshot, "last_run_duration")
}

func TestExportJob_WritesFiles(t *testing.T) {
	userRepo := user.NewInMemoryRepository()
	habitRepo := habit.NewInMemoryRepository()
	logRepo := habitlog.NewInMemoryRepository()

	dir := t.TempDir()
	exporter := export.NewExporter(export.Config{
		Stats:     stats.NewService(userRepo, habitRepo, logRepo),
		Directory: dir,
		Logger:    zerolog.New(io.Discard),
	})

	job := worker.NewExportJob(worker.ExportJobConfig{
		Config:   worker.DefaultExportConfig(),
		Logger:   zerolog.Nop(),
		Exporter: exporter,
		Users:    userRepo,
	})

	seedUser(t, userRepo, "alice", true)

	result := job.Run(context.Background())
	require.Equal(t, 1, result.Successful)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExportResult_Fields(t *testing.T) {
	result := &worker.ExportResult{
		StartTime:  time.Now(),
		TotalUsers: 10,
		Successful: 8,
		Failed:     2,
		Errors: []worker.ExportError{
			{UserID: "usr_1", Error: "timeout"},
			{UserID: "usr_2", Error: "unavailable"},
		},
	}
	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	assert.Equal(t, 10, result.TotalUsers)
	assert.Equal(t, 8, result.Successful)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)
	assert.Equal(t, "usr_1", result.Errors[0].UserID)
}
