// internal/auth/models.go
// Data structures for the authentication system.

package auth

import (
	"time"
)

// User represents a user in our system.
// IDs are opaque UUID strings generated by the database so they can mirror
// identities minted by an external identity provider.
type User struct {
	ID           string    `json:"id" db:"id"`
	Email        *string   `json:"email" db:"email"` // Nullable for provider-only users
	Username     string    `json:"username" db:"username"`
	FirstName    *string   `json:"first_name" db:"first_name"`
	LastName     *string   `json:"last_name" db:"last_name"`
	AvatarURL    *string   `json:"avatar_url" db:"avatar_url"`
	Bio          *string   `json:"bio" db:"bio"`
	PasswordHash *string   `json:"-" db:"password_hash"` // Nullable for OAuth users
	Provider     string    `json:"provider" db:"provider"` // 'local' or 'google'
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileSeed is the identity metadata used to provision a profile row.
// Username and name may be absent; defaults are derived from the id and email.
type ProfileSeed struct {
	UserID    string
	Email     *string
	Username  string
	Name      string
	AvatarURL *string
}

// SignupRequest is what the client sends to create an account
type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Name            string `json:"name" validate:"max=100"`
	Password        string `json:"password" validate:"required,min=8,max=100"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// SigninRequest handles email login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleAuthRequest for OAuth signin/signup
type GoogleAuthRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is returned on successful authentication
type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
