// internal/auth/service.go
// Service layer contains all business logic for authentication and
// profile-row provisioning.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/dapoadedire/vybe-backend/internal/common/utils"
)

// Common errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUnauthenticated    = errors.New("not authenticated")
)

// Service interface
type Service interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error)
	Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error)
	GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error)

	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error)
	Logout(ctx context.Context, refreshToken string) error

	// EnsureUserRow idempotently provisions the profile row for an
	// authenticated identity, deriving defaults from its metadata.
	EnsureUserRow(ctx context.Context, seed *ProfileSeed) error

	GetUserByID(ctx context.Context, userID string) (*User, error)
}

// Config holds service configuration
type Config struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
	GoogleClientID     string
}

type service struct {
	repo   Repository
	redis  *redis.Client
	config *Config
}

// NewService creates a new auth service
func NewService(repo Repository, redisClient *redis.Client, config *Config) Service {
	return &service{
		repo:   repo,
		redis:  redisClient,
		config: config,
	}
}

// Signup creates a new user account and signs them in
func (s *service) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if taken, err := s.repo.IsEmailTaken(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrUserAlreadyExists
	}

	if taken, err := s.repo.IsUsernameTaken(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	first, last := SplitName(req.Name)

	user := &User{
		Email:        &email,
		Username:     username,
		FirstName:    first,
		LastName:     last,
		PasswordHash: &hashStr,
		Provider:     "local",
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return s.createAuthSession(ctx, user)
}

// Signin authenticates a user with email and password
func (s *service) Signin(ctx context.Context, req *SigninRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createAuthSession(ctx, user)
}

// GoogleAuth handles Google OAuth sign-in/sign-up
func (s *service) GoogleAuth(ctx context.Context, req *GoogleAuthRequest) (*AuthResponse, error) {
	oauth2Service, err := oauth2.NewService(ctx, option.WithoutAuthentication())
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	tokenInfo, err := oauth2Service.Tokeninfo().IdToken(req.IDToken).Do()
	if err != nil {
		return nil, fmt.Errorf("invalid Google token: %w", err)
	}

	if s.config.GoogleClientID != "" && tokenInfo.Audience != s.config.GoogleClientID {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByEmail(ctx, tokenInfo.Email)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		user = &User{
			Email:    &tokenInfo.Email,
			Username: usernameFromEmail(tokenInfo.Email),
			Provider: "google",
		}
		if err := s.repo.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return s.createAuthSession(ctx, user)
}

// EnsureUserRow provisions the user's profile row. It is safe to call on
// every write path; when the row already exists the seed only fills fields
// that are still empty.
func (s *service) EnsureUserRow(ctx context.Context, seed *ProfileSeed) error {
	if seed.UserID == "" {
		return ErrUnauthenticated
	}

	username := strings.TrimSpace(seed.Username)
	if username == "" && seed.Email != nil {
		if at := strings.Index(*seed.Email, "@"); at > 0 {
			username = (*seed.Email)[:at]
		}
	}
	if username == "" {
		username = defaultUsername(seed.UserID)
	}

	first, last := SplitName(seed.Name)

	return s.repo.UpsertUserRow(ctx, seed.UserID, username, first, last, seed.AvatarURL)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := utils.ValidateJWT(refreshToken, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	// Refresh tokens are single-use when Redis is available
	if s.redis != nil {
		key := sessionKey(refreshToken)
		if err := s.redis.Get(ctx, key).Err(); err != nil {
			return nil, ErrInvalidToken
		}
		s.redis.Del(ctx, key)
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return s.createAuthSession(ctx, user)
}

// ValidateToken validates an access or refresh token
func (s *service) ValidateToken(ctx context.Context, token string) (*utils.JWTClaims, error) {
	claims, err := utils.ValidateJWT(token, s.config.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout invalidates a refresh token
func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if s.redis != nil {
		return s.redis.Del(ctx, sessionKey(refreshToken)).Err()
	}
	return nil
}

// GetUserByID returns a user by id
func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// createAuthSession issues an access/refresh token pair and records the
// refresh token in Redis when available
func (s *service) createAuthSession(ctx context.Context, user *User) (*AuthResponse, error) {
	now := time.Now()
	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	accessClaims := &utils.JWTClaims{
		UserID:    user.ID,
		Email:     email,
		Username:  user.Username,
		Type:      "access",
		ExpiresAt: now.Add(s.config.AccessTokenExpiry).Unix(),
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		Issuer:    "vybe-backend",
		Subject:   user.ID,
	}

	accessToken, err := utils.GenerateJWT(accessClaims, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshClaims := *accessClaims
	refreshClaims.Type = "refresh"
	refreshClaims.ExpiresAt = now.Add(s.config.RefreshTokenExpiry).Unix()

	refreshToken, err := utils.GenerateJWT(&refreshClaims, s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		s.redis.Set(ctx, sessionKey(refreshToken), user.ID, s.config.RefreshTokenExpiry)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
	}, nil
}

func sessionKey(refreshToken string) string {
	return "session:" + refreshToken
}

// SplitName splits a free-form display name into first and last name on the
// first whitespace run. Either part may be nil.
func SplitName(name string) (first, last *string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return nil, nil
	}
	f := fields[0]
	first = &f
	if len(fields) > 1 {
		l := strings.Join(fields[1:], " ")
		last = &l
	}
	return first, last
}

// defaultUsername derives a placeholder username from a user id
func defaultUsername(userID string) string {
	id := userID
	if len(id) > 8 {
		id = id[:8]
	}
	return "user_" + id
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return strings.ToLower(email[:at])
	}
	return strings.ToLower(email)
}
