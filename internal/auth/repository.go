// internal/auth/repository.go
// Repository pattern isolates database queries from business logic.

package auth

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository defines all database operations for auth
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// UpsertUserRow idempotently provisions a profile row keyed by user id.
	// On conflict the seed only fills fields that are still empty; it never
	// overwrites values the user has set.
	UpsertUserRow(ctx context.Context, id, username string, firstName, lastName, avatarURL *string) error

	IsEmailTaken(ctx context.Context, email string) (bool, error)
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, email, username, first_name, last_name, avatar_url, bio, password_hash, provider, created_at, updated_at`

// CreateUser inserts a new user, letting the database mint the UUID
func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (email, username, first_name, last_name, avatar_url, password_hash, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.Username,
		user.FirstName,
		user.LastName,
		user.AvatarURL,
		user.PasswordHash,
		user.Provider,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok {
			if pgErr.Code == "23505" { // unique_violation
				return ErrUserAlreadyExists
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUserBy(ctx, "id", id)
}

func (r *postgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUserBy(ctx, "email", email)
}

func (r *postgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.getUserBy(ctx, "username", username)
}

func (r *postgresRepository) getUserBy(ctx context.Context, column, value string) (*User, error) {
	user := &User{}
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.AvatarURL,
		&user.Bio,
		&user.PasswordHash,
		&user.Provider,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (r *postgresRepository) UpsertUserRow(ctx context.Context, id, username string, firstName, lastName, avatarURL *string) error {
	// Seed values only fill fields that are still empty. The seed is derived
	// from token claims and may be stale, so it must never clobber a
	// username, name or avatar the user has since set through the profile
	// endpoints.
	query := `
		INSERT INTO users (id, username, first_name, last_name, avatar_url, provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'external', NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			username   = COALESCE(users.username, EXCLUDED.username),
			first_name = COALESCE(users.first_name, EXCLUDED.first_name),
			last_name  = COALESCE(users.last_name, EXCLUDED.last_name),
			avatar_url = COALESCE(users.avatar_url, EXCLUDED.avatar_url),
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, id, username, firstName, lastName, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to upsert user row: %w", err)
	}
	return nil
}

func (r *postgresRepository) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *postgresRepository) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (r *postgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, fmt.Errorf("existence check failed: %w", err)
	}
	return exists, nil
}
