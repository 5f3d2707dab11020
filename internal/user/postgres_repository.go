package user

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

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const userColumns = `
	user_id, username, email, password_hash,
	pref_theme, pref_notifications, pref_language,
	is_active, created_at, updated_at
`

// sortColumns maps API sort keys to table columns.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"username":  "username",
	"email":     "email",
}

// Get retrieves a user by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE user_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// FindConflict returns a user other than excludeID holding the username or email.
func (r *PostgresRepository) FindConflict(ctx context.Context, username, email, excludeID string) (*User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE (username = $1 OR lower(email) = lower($2)) AND user_id <> $3
		LIMIT 1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username, email, excludeID))
}

// Find returns users matching the filter, sorted and paginated.
func (r *PostgresRepository) Find(ctx context.Context, filter Filter, opts ListOptions) ([]*User, error) {
	where, args := buildUserWhere(filter)

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if opts.Order == "asc" {
		direction = "ASC"
	}

	query := `SELECT` + userColumns + `FROM users` + where +
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

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Count returns the number of users matching the filter.
func (r *PostgresRepository) Count(ctx context.Context, filter Filter) (int, error) {
	where, args := buildUserWhere(filter)

	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&count)
	return count, err
}

// Create inserts a new user.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (
			user_id, username, email, password_hash,
			pref_theme, pref_notifications, pref_language,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Preferences.Theme,
		u.Preferences.Notifications,
		u.Preferences.Language,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

// Update replaces an existing user.
func (r *PostgresRepository) Update(ctx context.Context, u *User) error {
	query := `
		UPDATE users SET
			username = $2,
			email = $3,
			password_hash = $4,
			pref_theme = $5,
			pref_notifications = $6,
			pref_language = $7,
			is_active = $8,
			updated_at = $9
		WHERE user_id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Preferences.Theme,
		u.Preferences.Notifications,
		u.Preferences.Language,
		u.IsActive,
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete removes a user by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, id)
	return err
}

func buildUserWhere(filter Filter) (string, []any) {
	var conds []string
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(username ILIKE $%d OR email ILIKE $%d)", n, n))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		conds = append(conds, fmt.Sprintf("is_active = $%d", len(args)))
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

func (r *PostgresRepository) scanOne(row pgx.Row) (*User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Preferences.Theme,
		&u.Preferences.Notifications,
		&u.Preferences.Language,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
