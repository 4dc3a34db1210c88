package db

import (
	"context"
	"time"

	"github.com/authstack/backend/internal/model"
	"github.com/google/uuid"
)

const userColumns = `id, username, password_hash, person_id, status, last_login, login_attempts, blocked_until, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.PersonID,
		&user.Status,
		&user.LastLogin,
		&user.LoginAttempts,
		&user.BlockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Postgres) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		INSERT INTO users (id, username, password_hash, person_id, status, login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.PersonID, user.Status))
}

func (db *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, id))
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(db.Pool.QueryRow(ctx, query, username))
}

func (db *Postgres) ListUsers(ctx context.Context) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *Postgres) ListUsersByStatus(ctx context.Context, status string) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = $1 ORDER BY created_at`
	rows, err := db.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (db *Postgres) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET username = $2, password_hash = $3, person_id = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns
	return scanUser(db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.PasswordHash, user.PersonID, user.Status))
}

func (db *Postgres) UpdateUserStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

func (db *Postgres) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (db *Postgres) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// IncrementLoginAttempts bumps the failure counter atomically in SQL so
// concurrent failed logins against the same account never lose updates.
// Returns the post-increment counter value.
func (db *Postgres) IncrementLoginAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var attempts int
	err := db.Pool.QueryRow(ctx, `
		UPDATE users
		SET login_attempts = login_attempts + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING login_attempts
	`, id).Scan(&attempts)
	return attempts, err
}

func (db *Postgres) BlockUser(ctx context.Context, id uuid.UUID, until time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET blocked_until = $2, status = 'SUSPENDED', updated_at = NOW()
		WHERE id = $1
	`, id, until)
	return err
}

// UnblockUser is the administrative recovery path: it clears the lockout
// window, reactivates the account and zeroes the failure counter so the
// next wrong password starts a fresh count.
func (db *Postgres) UnblockUser(ctx context.Context, id uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET blocked_until = NULL, status = 'ACTIVE', login_attempts = 0, updated_at = NOW()
		WHERE id = $1
	`, id)
	return err
}

func (db *Postgres) ResetLoginAttempts(ctx context.Context, id uuid.UUID, lastLogin time.Time) error {
	_, err := db.Pool.Exec(ctx, `
		UPDATE users
		SET login_attempts = 0, blocked_until = NULL, last_login = $2, updated_at = NOW()
		WHERE id = $1
	`, id, lastLogin)
	return err
}
