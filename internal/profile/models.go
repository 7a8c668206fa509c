// internal/profile/models.go

package profile

import (
	"time"

	"github.com/dapoadedire/vybe-backend/internal/follows"
)

// Profile is a user's public page data.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	FirstName *string   `json:"first_name" db:"first_name"`
	LastName  *string   `json:"last_name" db:"last_name"`
	Bio       *string   `json:"bio" db:"bio"`
	AvatarURL *string   `json:"avatar_url" db:"avatar_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	PostCount int                   `json:"post_count" db:"post_count"`
	Counts    *follows.FollowCounts `json:"follow_counts"`
	// Following reports whether the requesting user follows this profile.
	Following bool `json:"following"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=3,max=30,alphanum"`
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Bio       *string `json:"bio" validate:"omitempty,max=500"`
}
