// internal/comments/models.go

package comments

import "time"

// Comment is a stored comment row joined with its author's identity.
type Comment struct {
	ID        string    `json:"id" db:"id"`
	PostID    string    `json:"post_id" db:"post_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Username  *string `json:"username" db:"username"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}

// CommentNode is a comment with its direct replies attached, as rendered by
// the client thread view.
type CommentNode struct {
	Comment
	Replies []CommentNode `json:"replies"`
}

type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=2000"`
	ParentID *string `json:"parent_id"`
}
