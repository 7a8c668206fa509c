// internal/posts/repository.go

package posts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Relation names the user<->post join tables behind the like/share/save
// toggles. Table names are resolved through this whitelist, never from input.
type Relation string

const (
	RelationLike  Relation = "post_likes"
	RelationShare Relation = "post_shares"
	RelationSave  Relation = "saved_posts"
)

// Repository defines all database operations on posts and their
// like/share/save relation tables.
type Repository interface {
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, postID string) (*Post, error)
	GetPostOwner(ctx context.Context, postID string) (string, error)
	UpdatePost(ctx context.Context, postID string, req *UpdatePostRequest) error
	DeletePost(ctx context.Context, postID string) error

	HasRelation(ctx context.Context, rel Relation, userID, postID string) (bool, error)
	AddRelation(ctx context.Context, rel Relation, userID, postID string) error
	RemoveRelation(ctx context.Context, rel Relation, userID, postID string) error
	GetRelatedPostIDs(ctx context.Context, rel Relation, userID string) ([]string, error)
}

type postgresRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (user_id, content, image_url, image_urls, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, post.UserID, post.Content, post.ImageURL, pq.Array(post.ImageURLs)).
		Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetPostByID(ctx context.Context, postID string) (*Post, error) {
	post := &Post{}
	query := `
		SELECT id, user_id, content, image_url, COALESCE(image_urls, '{}'), created_at, updated_at
		FROM posts WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, postID).Scan(
		&post.ID, &post.UserID, &post.Content, &post.ImageURL,
		pq.Array(&post.ImageURLs), &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// GetPostOwner returns the author id of a post
func (r *postgresRepository) GetPostOwner(ctx context.Context, postID string) (string, error) {
	var ownerID string
	query := `SELECT user_id FROM posts WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, postID).Scan(&ownerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrPostNotFound
		}
		return "", fmt.Errorf("failed to get post owner: %w", err)
	}
	return ownerID, nil
}

func (r *postgresRepository) UpdatePost(ctx context.Context, postID string, req *UpdatePostRequest) error {
	query := `
		UPDATE posts
		SET content = $2, image_url = $3, image_urls = $4, updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, postID, req.Content, req.ImageURL, pq.Array(req.ImageURLs))
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeletePost(ctx context.Context, postID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback()

	// Delete related data
	for _, stmt := range []string{
		`DELETE FROM post_likes WHERE post_id = $1`,
		`DELETE FROM post_shares WHERE post_id = $1`,
		`DELETE FROM saved_posts WHERE post_id = $1`,
		`DELETE FROM comments WHERE post_id = $1`,
		`DELETE FROM notifications WHERE post_id = $1`,
		`DELETE FROM posts WHERE id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, postID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
	}

	return tx.Commit()
}

// HasRelation reports whether a (user, post) row exists in the relation table
func (r *postgresRepository) HasRelation(ctx context.Context, rel Relation, userID, postID string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE user_id = $1 AND post_id = $2)`, rel)

	if err := r.db.QueryRowContext(ctx, query, userID, postID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s: %w", rel, err)
	}
	return exists, nil
}

// AddRelation inserts a (user, post) row. A concurrent duplicate insert is an
// idempotent no-op thanks to the unique pair constraint.
func (r *postgresRepository) AddRelation(ctx context.Context, rel Relation, userID, postID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, post_id, created_at)
		VALUES ($1, $2, NOW()) ON CONFLICT DO NOTHING`, rel)

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to add %s: %w", rel, err)
	}
	return nil
}

// RemoveRelation deletes a (user, post) row
func (r *postgresRepository) RemoveRelation(ctx context.Context, rel Relation, userID, postID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND post_id = $2`, rel)

	if _, err := r.db.ExecContext(ctx, query, userID, postID); err != nil {
		return fmt.Errorf("failed to remove %s: %w", rel, err)
	}
	return nil
}

// GetRelatedPostIDs returns all post ids a user has in the relation table
func (r *postgresRepository) GetRelatedPostIDs(ctx context.Context, rel Relation, userID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT post_id FROM %s WHERE user_id = $1`, rel)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", rel, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", rel, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ids, nil
}
