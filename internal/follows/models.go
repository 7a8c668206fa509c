// internal/follows/models.go

package follows

import "time"

// Follow is a directed edge in the social graph
type Follow struct {
	FollowerID string    `json:"follower_id" db:"follower_id"`
	FolloweeID string    `json:"followee_id" db:"followee_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// FollowCounts summarizes a user's position in the graph
type FollowCounts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// FollowUser is the joined user info rendered in follower/following lists
type FollowUser struct {
	ID        string  `json:"id" db:"id"`
	Username  string  `json:"username" db:"username"`
	FirstName *string `json:"first_name" db:"first_name"`
	LastName  *string `json:"last_name" db:"last_name"`
	AvatarURL *string `json:"avatar_url" db:"avatar_url"`
}
