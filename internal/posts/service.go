// internal/posts/service.go

package posts

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"strings"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

// Common errors
var (
	ErrPostNotFound = errors.New("post not found")
	ErrForbidden    = errors.New("not the post owner")
	ErrEmptyPost    = errors.New("post must have either content or an image")
)

// Notifier records like/share notifications for post authors. Best-effort.
type Notifier interface {
	NotifyLike(ctx context.Context, recipientID, actorID, postID string) error
	NotifyShare(ctx context.Context, recipientID, actorID, postID string) error
}

// ProfileEnsurer provisions the author's profile row before a write,
// mirroring the identity-resolver contract.
type ProfileEnsurer interface {
	EnsureUserRow(ctx context.Context, seed *auth.ProfileSeed) error
}

type Service struct {
	repo          Repository
	uploadService *UploadService
	profiles      ProfileEnsurer
	notifier      Notifier
}

// NewService creates a new posts service. notifier may be nil.
func NewService(repo Repository, uploadService *UploadService, profiles ProfileEnsurer, notifier Notifier) *Service {
	return &Service{
		repo:          repo,
		uploadService: uploadService,
		profiles:      profiles,
		notifier:      notifier,
	}
}

func (s *Service) CreatePost(ctx context.Context, seed *auth.ProfileSeed, req *CreatePostRequest) (*Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && req.ImageURL == nil && len(req.ImageURLs) == 0 {
		return nil, ErrEmptyPost
	}

	// The posts table references users(id); make sure the row exists before
	// inserting so a freshly provisioned identity doesn't hit the FK.
	if err := s.profiles.EnsureUserRow(ctx, seed); err != nil {
		return nil, err
	}

	post := &Post{
		UserID:    seed.UserID,
		Content:   content,
		ImageURL:  req.ImageURL,
		ImageURLs: req.ImageURLs,
	}

	// Keep image_url mirroring the first entry of image_urls for older readers
	if post.ImageURL == nil && len(post.ImageURLs) > 0 {
		post.ImageURL = &post.ImageURLs[0]
	}

	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *Service) GetPost(ctx context.Context, postID string) (*Post, error) {
	return s.repo.GetPostByID(ctx, postID)
}

func (s *Service) UpdatePost(ctx context.Context, postID, userID string, req *UpdatePostRequest) (*Post, error) {
	ownerID, err := s.repo.GetPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrForbidden
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := s.repo.UpdatePost(ctx, postID, req); err != nil {
		return nil, err
	}

	return s.repo.GetPostByID(ctx, postID)
}

func (s *Service) DeletePost(ctx context.Context, postID, userID string) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return ErrForbidden
	}

	if err := s.repo.DeletePost(ctx, postID); err != nil {
		return err
	}

	// Stored images are orphaned once the row is gone; clean them up
	// best-effort so a storage failure never undoes the delete.
	if s.uploadService != nil {
		for _, url := range post.ImageURLs {
			if derr := s.uploadService.DeleteFile(url); derr != nil {
				log.Printf("post image cleanup failed for %s: %v", url, derr)
			}
		}
		if post.ImageURL != nil && len(post.ImageURLs) == 0 {
			if derr := s.uploadService.DeleteFile(*post.ImageURL); derr != nil {
				log.Printf("post image cleanup failed for %s: %v", *post.ImageURL, derr)
			}
		}
	}

	return nil
}

// ToggleLike flips the like state and returns the new membership
func (s *Service) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	nowSet, err := s.toggleRelation(ctx, RelationLike, postID, userID)
	if err != nil {
		return nowSet, err
	}
	if nowSet && s.notifier != nil {
		if ownerID, oerr := s.repo.GetPostOwner(ctx, postID); oerr == nil && ownerID != userID {
			if nerr := s.notifier.NotifyLike(ctx, ownerID, userID, postID); nerr != nil {
				log.Printf("like notification failed: %v", nerr)
			}
		}
	}
	return nowSet, nil
}

// ToggleShare flips the share state and returns the new membership
func (s *Service) ToggleShare(ctx context.Context, postID, userID string) (bool, error) {
	nowSet, err := s.toggleRelation(ctx, RelationShare, postID, userID)
	if err != nil {
		return nowSet, err
	}
	if nowSet && s.notifier != nil {
		if ownerID, oerr := s.repo.GetPostOwner(ctx, postID); oerr == nil && ownerID != userID {
			if nerr := s.notifier.NotifyShare(ctx, ownerID, userID, postID); nerr != nil {
				log.Printf("share notification failed: %v", nerr)
			}
		}
	}
	return nowSet, nil
}

// ToggleSave flips the save state and returns the new membership. Saves are
// private, so no notification is recorded.
func (s *Service) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	return s.toggleRelation(ctx, RelationSave, postID, userID)
}

// toggleRelation applies check-then-act toggle semantics. The check and the
// mutation are not wrapped in a transaction; a racing duplicate insert is
// absorbed by the relation table's unique pair constraint.
func (s *Service) toggleRelation(ctx context.Context, rel Relation, postID, userID string) (bool, error) {
	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		return false, err
	}

	present, err := s.repo.HasRelation(ctx, rel, userID, postID)
	if err != nil {
		return false, err
	}

	if present {
		if err := s.repo.RemoveRelation(ctx, rel, userID, postID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.repo.AddRelation(ctx, rel, userID, postID); err != nil {
		return false, err
	}
	return true, nil
}

// GetInteractionSets fetches the user's liked, shared and saved post id sets.
// All three queries must succeed; a failure in any one fails the whole
// aggregation so feeds never render partial interaction state.
func (s *Service) GetInteractionSets(ctx context.Context, userID string) (*InteractionSets, error) {
	liked, err := s.repo.GetRelatedPostIDs(ctx, RelationLike, userID)
	if err != nil {
		return nil, err
	}

	shared, err := s.repo.GetRelatedPostIDs(ctx, RelationShare, userID)
	if err != nil {
		return nil, err
	}

	saved, err := s.repo.GetRelatedPostIDs(ctx, RelationSave, userID)
	if err != nil {
		return nil, err
	}

	return &InteractionSets{
		Liked:  toSet(liked),
		Shared: toSet(shared),
		Saved:  toSet(saved),
	}, nil
}

// UploadImage stores a post image and returns its public URL
func (s *Service) UploadImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	return s.uploadService.UploadFile(file, header)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
