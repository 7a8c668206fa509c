// internal/notifications/models.go

package notifications

import "time"

const (
	TypeLike    = "like"
	TypeComment = "comment"
	TypeFollow  = "follow"
	TypeShare   = "share"
)

// Notification is an activity event delivered to a user, joined with the
// acting user's identity for display.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ActorID   string    `json:"actor_id" db:"actor_id"`
	PostID    *string   `json:"post_id" db:"post_id"`
	CommentID *string   `json:"comment_id" db:"comment_id"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	ActorUsername  *string `json:"actor_username" db:"actor_username"`
	ActorAvatarURL *string `json:"actor_avatar_url" db:"actor_avatar_url"`
}
