package habit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL habit repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const habitColumns = `
	habit_id, user_id, title, description, category, frequency,
	target_days, icon, color, is_active, created_at, updated_at
`

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"category":  "category",
}

// Get retrieves a habit by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Habit, error) {
	query := `SELECT` + habitColumns + `FROM habits WHERE habit_id = $1`

	h, err := scanHabit(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}
	return h, nil
}

// Find returns habits matching the filter, sorted and paginated.
func (r *PostgresRepository) Find(ctx context.Context, filter Filter, opts ListOptions) ([]*Habit, error) {
	where, args := buildHabitWhere(filter)

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}

	query := `SELECT` + habitColumns + `FROM habits` + where +
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

	var habits []*Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// Count returns the number of habits matching the filter.
func (r *PostgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildHabitWhere(filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM habits`+where, args...).Scan(&count)
	return count, err
}

// Create inserts a new habit.
func (r *PostgresRepository) Create(ctx context.Context, h *Habit) error {
	query := `
		INSERT INTO habits (
			habit_id, user_id, title, description, category, frequency,
			target_days, icon, color, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		h.ID,
		h.UserID,
		h.Title,
		h.Description,
		h.Category,
		h.Frequency,
		h.TargetDays,
		h.Icon,
		h.Color,
		h.IsActive,
		h.CreatedAt,
		h.UpdatedAt,
	)
	return err
}

// Update replaces an existing habit.
func (r *PostgresRepository) Update(ctx context.Context, h *Habit) error {
	query := `
		UPDATE habits SET
			title = $2,
			description = $3,
			category = $4,
			frequency = $5,
			target_days = $6,
			icon = $7,
			color = $8,
			is_active = $9,
			updated_at = $10
		WHERE habit_id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		h.ID,
		h.Title,
		h.Description,
		h.Category,
		h.Frequency,
		h.TargetDays,
		h.Icon,
		h.Color,
		h.IsActive,
		h.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// Delete removes a habit by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM habits WHERE habit_id = $1`, id)
	return err
}

func buildHabitWhere(filter Filter) (string, []any) {
	var conds []string
	var args []any

	if filter.UserID != "" {
		args = append(args, filter.UserID)
		conds = append(conds, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Frequency != "" {
		args = append(args, filter.Frequency)
		conds = append(conds, fmt.Sprintf("frequency = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanHabit(row pgx.Row) (*Habit, error) {
	var h Habit
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Title,
		&h.Description,
		&h.Category,
		&h.Frequency,
		&h.TargetDays,
		&h.Icon,
		&h.Color,
		&h.IsActive,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
