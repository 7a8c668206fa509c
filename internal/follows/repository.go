// internal/follows/repository.go

package follows

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines all database operations on the follow graph
type Repository interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)

	// GetFollowingIDs returns the ids the given user follows (direct set)
	GetFollowingIDs(ctx context.Context, userID string) ([]string, error)

	// GetFolloweesOf returns the union of ids followed by any user in the
	// given set. Exclusions are applied by the service layer.
	GetFolloweesOf(ctx context.Context, userIDs []string) ([]string, error)

	GetCounts(ctx context.Context, userID string) (*FollowCounts, error)
	GetFollowers(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error)
	GetFollowing(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}
	return nil
}

func (r *postgresRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`

	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (r *postgresRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`

	if err := r.db.QueryRowContext(ctx, query, followerID, followeeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) GetFollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	query := `SELECT followee_id FROM follows WHERE follower_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) GetFolloweesOf(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var ids []string
	query := `SELECT DISTINCT followee_id FROM follows WHERE follower_id = ANY($1)`

	if err := r.db.SelectContext(ctx, &ids, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("failed to get second-level follows: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) GetCounts(ctx context.Context, userID string) (*FollowCounts, error) {
	counts := &FollowCounts{}
	query := `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE followee_id = $1) AS followers,
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1) AS following`

	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&counts.Followers, &counts.Following); err != nil {
		return nil, fmt.Errorf("failed to get follow counts: %w", err)
	}
	return counts, nil
}

func (r *postgresRepository) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.avatar_url
		FROM follows f
		JOIN users u ON f.follower_id = u.id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	var users []FollowUser
	if err := r.db.SelectContext(ctx, &users, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return users, nil
}

func (r *postgresRepository) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error) {
	query := `
		SELECT u.id, u.username, u.first_name, u.last_name, u.avatar_url
		FROM follows f
		JOIN users u ON f.followee_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`

	var users []FollowUser
	if err := r.db.SelectContext(ctx, &users, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return users, nil
}
