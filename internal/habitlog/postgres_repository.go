package habitlog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// The habit_logs table carries a unique index on (habit_id, date_string).
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL log repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const logColumns = `
	log_id, habit_id, user_id, logged_at, date_string, completed, notes,
	mood, duration_min, meta_location, meta_weather, meta_companions,
	created_at, updated_at
`

var sortColumns = map[string]string{
	"date":      "logged_at",
	"createdAt": "created_at",
}

// Get retrieves a log by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Log, error) {
	query := `SELECT` + logColumns + `FROM habit_logs WHERE log_id = $1`

	l, err := scanLog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetByHabitAndDate retrieves the log for a (habit, day) pair.
func (r *PostgresRepository) GetByHabitAndDate(ctx context.Context, habitID, dateString string) (*Log, error) {
	query := `SELECT` + logColumns + `FROM habit_logs WHERE habit_id = $1 AND date_string = $2`

	l, err := scanLog(r.pool.QueryRow(ctx, query, habitID, dateString))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, err
	}
	return l, nil
}

// Find returns logs matching the filter, sorted and paginated.
func (r *PostgresRepository) Find(ctx context.Context, filter Filter, opts ListOptions) ([]*Log, error) {
	where, args := buildLogWhere(filter)

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "logged_at"
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}

	query := `SELECT` + logColumns + `FROM habit_logs` + where +
		fmt.Sprintf(" ORDER BY %s %s", column, direction)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Count returns the number of logs matching the filter.
func (r *PostgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildLogWhere(filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM habit_logs`+where, args...).Scan(&count)
	return count, err
}

// Create inserts a new log, rejecting (habit, day) duplicates.
func (r *PostgresRepository) Create(ctx context.Context, l *Log) error {
	existing, err := r.GetByHabitAndDate(ctx, l.HabitID, l.DateString)
	if err == nil {
		return &DuplicateError{Existing: existing}
	}
	if !errors.Is(err, ErrLogNotFound) {
		return err
	}

	query := `
		INSERT INTO habit_logs (
			log_id, habit_id, user_id, logged_at, date_string, completed, notes,
			mood, duration_min, meta_location, meta_weather, meta_companions,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err = r.pool.Exec(ctx, query, insertArgs(l)...)
	return err
}

// Update replaces an existing log.
func (r *PostgresRepository) Update(ctx context.Context, l *Log) error {
	existing, err := r.GetByHabitAndDate(ctx, l.HabitID, l.DateString)
	if err == nil && existing.ID != l.ID {
		return &DuplicateError{Existing: existing}
	}
	if err != nil && !errors.Is(err, ErrLogNotFound) {
		return err
	}

	query := `
		UPDATE habit_logs SET
			logged_at = $2,
			date_string = $3,
			completed = $4,
			notes = $5,
			mood = $6,
			duration_min = $7,
			meta_location = $8,
			meta_weather = $9,
			meta_companions = $10,
			updated_at = $11
		WHERE log_id = $1
	`
	var location, weather string
	var companions []string
	if l.Metadata != nil {
		location = l.Metadata.Location
		weather = l.Metadata.Weather
		companions = l.Metadata.Companions
	}
	result, err := r.pool.Exec(ctx, query,
		l.ID,
		l.Date,
		l.DateString,
		l.Completed,
		l.Notes,
		l.Mood,
		l.Duration,
		location,
		weather,
		companions,
		l.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

// Delete removes a log by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM habit_logs WHERE log_id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

// DeleteByHabit removes all logs for a habit.
func (r *PostgresRepository) DeleteByHabit(ctx context.Context, habitID string) (int, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM habit_logs WHERE habit_id = $1`, habitID)
	if err != nil {
		return 0, err
	}
	return int(result.RowsAffected()), nil
}

func insertArgs(l *Log) []any {
	var location, weather string
	var companions []string
	if l.Metadata != nil {
		location = l.Metadata.Location
		weather = l.Metadata.Weather
		companions = l.Metadata.Companions
	}
	return []any{
		l.ID,
		l.HabitID,
		l.UserID,
		l.Date,
		l.DateString,
		l.Completed,
		l.Notes,
		l.Mood,
		l.Duration,
		location,
		weather,
		companions,
		l.CreatedAt,
		l.UpdatedAt,
	}
}

func buildLogWhere(filter Filter) (string, []any) {
	var conds []string
	var args []any

	if filter.HabitID != "" {
		args = append(args, filter.HabitID)
		conds = append(conds, fmt.Sprintf("habit_id = $%d", len(args)))
	}
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Completed != nil {
		args = append(args, *filter.Completed)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conds = append(conds, fmt.Sprintf("logged_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conds = append(conds, fmt.Sprintf("logged_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	var location, weather string
	var companions []string
	err := row.Scan(
		&l.ID,
		&l.HabitID,
		&l.UserID,
		&l.Date,
		&l.DateString,
		&l.Completed,
		&l.Notes,
		&l.Mood,
		&l.Duration,
		&location,
		&weather,
		&companions,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if location != "" || weather != "" || len(companions) > 0 {
		l.Metadata = &Metadata{Location: location, Weather: weather, Companions: companions}
	}
	return &l, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
