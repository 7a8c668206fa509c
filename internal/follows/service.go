// internal/follows/service.go
// Business logic for the follow graph: toggle semantics plus the direct and
// second-level following sets used for relationship labeling.

package follows

import (
	"context"
	"errors"
	"log"
)

// Common errors
var (
	ErrSelfFollow = errors.New("cannot follow yourself")
)

// Notifier records a follow notification for the followee. Best-effort.
type Notifier interface {
	NotifyFollow(ctx context.Context, followeeID, followerID string) error
}

// Service interface
type Service interface {
	// ToggleFollow follows when no edge exists and unfollows when one does,
	// returning the new state (true = now following).
	ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error)

	// GetFollowingIDs returns the set of ids the user follows directly
	GetFollowingIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// GetSecondLevelFollowingIDs returns everyone followed by the direct set,
	// excluding the requester and the direct set itself
	GetSecondLevelFollowingIDs(ctx context.Context, userID string, direct map[string]struct{}) (map[string]struct{}, error)

	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	GetCounts(ctx context.Context, userID string) (*FollowCounts, error)
	GetFollowers(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error)
	GetFollowing(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

// NewService creates a new follows service. notifier may be nil.
func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, ErrSelfFollow
	}

	following, err := s.repo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, err
	}

	if following {
		if err := s.repo.Unfollow(ctx, followerID, followeeID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		return false, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyFollow(ctx, followeeID, followerID); err != nil {
			log.Printf("follow notification failed: %v", err)
		}
	}

	return true, nil
}

func (s *service) GetFollowingIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids, err := s.repo.GetFollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *service) GetSecondLevelFollowingIDs(ctx context.Context, userID string, direct map[string]struct{}) (map[string]struct{}, error) {
	if len(direct) == 0 {
		return map[string]struct{}{}, nil
	}

	directIDs := make([]string, 0, len(direct))
	for id := range direct {
		directIDs = append(directIDs, id)
	}

	ids, err := s.repo.GetFolloweesOf(ctx, directIDs)
	if err != nil {
		return nil, err
	}

	second := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == userID {
			continue
		}
		if _, ok := direct[id]; ok {
			continue
		}
		second[id] = struct{}{}
	}
	return second, nil
}

func (s *service) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

func (s *service) GetCounts(ctx context.Context, userID string) (*FollowCounts, error) {
	return s.repo.GetCounts(ctx, userID)
}

func (s *service) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error) {
	return s.repo.GetFollowers(ctx, userID, limit, offset)
}

func (s *service) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]FollowUser, error) {
	return s.repo.GetFollowing(ctx, userID, limit, offset)
}
