// internal/posts/models.go

package posts

import (
	"time"

	"github.com/lib/pq"
)

// Post is the stored post row. Aggregate counts are derived at query time by
// the feed package, never stored here.
type Post struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Content   string         `json:"content" db:"content"`
	ImageURL  *string        `json:"image_url" db:"image_url"`
	ImageURLs pq.StringArray `json:"image_urls" db:"image_urls"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// InteractionSets holds the post ids the user has liked, shared and saved.
// All three are fetched before any feed row is mapped.
type InteractionSets struct {
	Liked  map[string]struct{}
	Shared map[string]struct{}
	Saved  map[string]struct{}
}

// CreatePostRequest is the payload for creating a post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"max=5000"`
	ImageURL  *string  `json:"image_url,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"max=10"`
}

// UpdatePostRequest is the payload for editing a post
type UpdatePostRequest struct {
	Content   string   `json:"content" validate:"max=5000"`
	ImageURL  *string  `json:"image_url,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty" validate:"max=10"`
}
