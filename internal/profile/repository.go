// internal/profile/repository.go

package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	Update(ctx context.Context, id string, req *UpdateProfileRequest) error
	UpdateAvatar(ctx context.Context, id, avatarURL string) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const profileSelect = `
	SELECT u.id, u.username, u.first_name, u.last_name, u.bio, u.avatar_url,
	       u.created_at,
	       (SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS post_count
	FROM users u`

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Profile, error) {
	return r.getBy(ctx, profileSelect+` WHERE u.id = $1`, id)
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*Profile, error) {
	return r.getBy(ctx, profileSelect+` WHERE u.username = $1`, username)
}

func (r *postgresRepository) getBy(ctx context.Context, query string, arg interface{}) (*Profile, error) {
	var p Profile
	err := r.db.GetContext(ctx, &p, query, arg)
	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) Update(ctx context.Context, id string, req *UpdateProfileRequest) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET
			username   = COALESCE($2, username),
			first_name = COALESCE($3, first_name),
			last_name  = COALESCE($4, last_name),
			bio        = COALESCE($5, bio),
			updated_at = NOW()
		 WHERE id = $1`,
		id, req.Username, req.FirstName, req.LastName, req.Bio)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`,
		id, avatarURL)
	if err != nil {
		return fmt.Errorf("updating avatar: %w", err)
	}
	return nil
}
