// Package export writes statistics snapshots to JSON files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/habitloop/habitloop/internal/api/models"
	"github.com/habitloop/habitloop/internal/stats"
)

// DefaultDirectory is where export files land unless configured otherwise.
const DefaultDirectory = "exports"

// Exporter builds a statistics snapshot for a user and writes it to disk.
type Exporter struct {
	stats  *stats.Service
	dir    string
	logger zerolog.Logger
}

// Config holds configuration for the exporter.
type Config struct {
	Stats     *stats.Service
	Directory string
	Logger    zerolog.Logger
}

// NewExporter creates a new exporter.
func NewExporter(cfg Config) *Exporter {
	dir := cfg.Directory
	if dir == "" {
		dir = DefaultDirectory
	}
	return &Exporter{
		stats:  cfg.Stats,
		dir:    dir,
		logger: cfg.Logger,
	}
}

// Export writes a {userStats, periodStats, trends} snapshot for one user.
// The file name carries the user ID and a UTC timestamp so repeated exports
// never clobber each other.
func (e *Exporter) Export(ctx context.Context, userID string, period models.Period) (*models.StatsExportResult, error) {
	userStats, err := e.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("building user stats: %w", err)
	}

	periodStats, err := e.stats.PeriodStats(ctx, userID, period)
	if err != nil {
		return nil, fmt.Errorf("building period stats: %w", err)
	}

	trends, err := e.stats.Trends(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("building trends: %w", err)
	}

	snapshot := &models.StatsExport{
		ExportDate:  models.Timestamp(time.Now()),
		UserID:      userID,
		Period:      periodStats.Period,
		UserStats:   userStats,
		PeriodStats: periodStats,
		Trends:      trends,
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	name := fmt.Sprintf("stats_%s_%s.json", userID, time.Now().UTC().Format("20060102T150405Z"))
	path := filepath.Join(e.dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing export file: %w", err)
	}

	e.logger.Info().
		Str("user_id", userID).
		Str("file", path).
		Int("bytes", len(data)).
		Msg("stats export written")

	return &models.StatsExportResult{
		File: path,
		Data: snapshot,
	}, nil
}
