package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/musicgraph/musicgraph-server/internal/domain"
	"github.com/musicgraph/musicgraph-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, username, email, password_hash, is_admin, last_login_at, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u           domain.User
		isAdmin     int
		lastLoginAt sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&isAdmin,
		&lastLoginAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.IsAdmin = isAdmin != 0

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if lastLoginAt.Valid {
		if u.LastLoginAt, err = parseTime(lastLoginAt.String); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func (r queries) getUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

// GetUser retrieves a user by ID.
func (r queries) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return r.getUserWhere(ctx, `id = ?`, id)
}

// GetUserByUsername retrieves a user by case-insensitive username.
func (r queries) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUserWhere(ctx, `username_lower = ?`, strings.ToLower(username))
}

// GetUserByEmail retrieves a user by case-insensitive email.
func (r queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUserWhere(ctx, `email_lower = ?`, strings.ToLower(email))
}

// ListUsers returns every user ordered by username.
func (r queries) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY username_lower`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountUsers returns the number of users.
func (r queries) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the ID, username or email is taken.
func (t *txn) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := t.q.ExecContext(ctx, `
		INSERT INTO users (
			id, username, username_lower, email, email_lower, password_hash,
			is_admin, last_login_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		strings.ToLower(u.Username),
		u.Email,
		strings.ToLower(u.Email),
		u.PasswordHash,
		boolToInt(u.IsAdmin),
		nullTime(u.LastLoginAt),
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UpdateUser updates every mutable user column.
func (t *txn) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := t.q.ExecContext(ctx, `
		UPDATE users SET
			username = ?, username_lower = ?, email = ?, email_lower = ?,
			password_hash = ?, is_admin = ?, last_login_at = ?, updated_at = ?
		WHERE id = ?`,
		u.Username,
		strings.ToLower(u.Username),
		u.Email,
		strings.ToLower(u.Email),
		u.PasswordHash,
		boolToInt(u.IsAdmin),
		nullTime(u.LastLoginAt),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithCause(err)
		}
		return fmt.Errorf("update user: %w", err)
	}
	return requireRow(res)
}
