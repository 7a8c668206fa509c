// internal/notifications/repository.go

package notifications

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, userID, actorID, notifType string, postID, commentID *string) error
	GetByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, userID, actorID, notifType string, postID, commentID *string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, actor_id, type, post_id, comment_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, actorID, notifType, postID, commentID)
	if err != nil {
		return fmt.Errorf("creating notification: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByUser(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	var list []Notification
	err := r.db.SelectContext(ctx, &list,
		`SELECT n.id, n.user_id, n.actor_id, n.post_id, n.comment_id,
		        n.type, n.is_read, n.created_at,
		        u.username AS actor_username, u.avatar_url AS actor_avatar_url
		 FROM notifications n
		 LEFT JOIN users u ON u.id = n.actor_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	if list == nil {
		list = []Notification{}
	}
	return list, nil
}

func (r *postgresRepository) MarkRead(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresRepository) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

func (r *postgresRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return count, nil
}
