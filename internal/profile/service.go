// internal/profile/service.go

package profile

import (
	"context"
	"errors"
	"log"

	"github.com/dapoadedire/vybe-backend/internal/follows"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrUsernameTaken   = errors.New("username already taken")
)

type Service interface {
	// GetProfile loads a profile by id, decorated with follow counts and,
	// when requesterID is set, whether the requester follows it.
	GetProfile(ctx context.Context, id, requesterID string) (*Profile, error)
	GetProfileByUsername(ctx context.Context, username, requesterID string) (*Profile, error)
	Update(ctx context.Context, id string, req *UpdateProfileRequest) (*Profile, error)
	UpdateAvatar(ctx context.Context, id, avatarURL string) (*Profile, error)
}

type service struct {
	repo        Repository
	followGraph follows.Service
}

func NewService(repo Repository, followGraph follows.Service) Service {
	return &service{repo: repo, followGraph: followGraph}
}

func (s *service) GetProfile(ctx context.Context, id, requesterID string) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, p, requesterID)
	return p, nil
}

func (s *service) GetProfileByUsername(ctx context.Context, username, requesterID string) (*Profile, error) {
	p, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.decorate(ctx, p, requesterID)
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, req *UpdateProfileRequest) (*Profile, error) {
	if err := s.repo.Update(ctx, id, req); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id, id)
}

func (s *service) UpdateAvatar(ctx context.Context, id, avatarURL string) (*Profile, error) {
	if err := s.repo.UpdateAvatar(ctx, id, avatarURL); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, id, id)
}

// decorate fills follow counts and follow state. Counts are display data, so
// a follow graph failure logs and leaves them empty instead of failing the
// page.
func (s *service) decorate(ctx context.Context, p *Profile, requesterID string) {
	counts, err := s.followGraph.GetCounts(ctx, p.ID)
	if err != nil {
		log.Printf("profile: follow counts unavailable for %s: %v", p.ID, err)
		counts = &follows.FollowCounts{}
	}
	p.Counts = counts

	if requesterID != "" && requesterID != p.ID {
		following, err := s.followGraph.IsFollowing(ctx, requesterID, p.ID)
		if err != nil {
			log.Printf("profile: follow check failed for %s: %v", p.ID, err)
		}
		p.Following = following
	}
}
