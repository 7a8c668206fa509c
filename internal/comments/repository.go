// internal/comments/repository.go

package comments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, postID, userID string, parentID *string, content string) (*Comment, error)
	GetByID(ctx context.Context, id string) (*Comment, error)
	// GetByPost returns every comment on the post as a flat list ordered by
	// creation time ascending. Threading happens in the service.
	GetByPost(ctx context.Context, postID string) ([]Comment, error)
	Delete(ctx context.Context, id string) error
	GetPostOwner(ctx context.Context, postID string) (string, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.user_id, c.parent_id, c.content, c.created_at,
	       u.username, u.avatar_url
	FROM comments c
	LEFT JOIN users u ON u.id = c.user_id`

func (r *postgresRepository) Create(ctx context.Context, postID, userID string, parentID *string, content string) (*Comment, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (post_id, user_id, parent_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		postID, userID, parentID, content,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Comment, error) {
	var comment Comment
	err := r.db.GetContext(ctx, &comment, commentSelect+` WHERE c.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching comment: %w", err)
	}
	return &comment, nil
}

func (r *postgresRepository) GetByPost(ctx context.Context, postID string) ([]Comment, error) {
	var list []Comment
	err := r.db.SelectContext(ctx, &list,
		commentSelect+` WHERE c.post_id = $1 ORDER BY c.created_at ASC`, postID)
	if err != nil {
		return nil, fmt.Errorf("fetching comments: %w", err)
	}
	return list, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *postgresRepository) GetPostOwner(ctx context.Context, postID string) (string, error) {
	var owner string
	err := r.db.GetContext(ctx, &owner, `SELECT user_id FROM posts WHERE id = $1`, postID)
	if err == sql.ErrNoRows {
		return "", ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetching post owner: %w", err)
	}
	return owner, nil
}
