// internal/notifications/service.go

package notifications

import (
	"context"
	"errors"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Service records and serves activity events. It satisfies the notifier
// interfaces declared by the follows, posts and comments packages, which is
// how those packages emit events without importing this one.
type Service interface {
	NotifyFollow(ctx context.Context, followeeID, followerID string) error
	NotifyLike(ctx context.Context, recipientID, actorID, postID string) error
	NotifyShare(ctx context.Context, recipientID, actorID, postID string) error
	NotifyComment(ctx context.Context, postOwnerID, actorID, postID, commentID string) error

	List(ctx context.Context, userID string, limit, offset int) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) NotifyFollow(ctx context.Context, followeeID, followerID string) error {
	return s.repo.Create(ctx, followeeID, followerID, TypeFollow, nil, nil)
}

func (s *service) NotifyLike(ctx context.Context, recipientID, actorID, postID string) error {
	return s.repo.Create(ctx, recipientID, actorID, TypeLike, &postID, nil)
}

func (s *service) NotifyShare(ctx context.Context, recipientID, actorID, postID string) error {
	return s.repo.Create(ctx, recipientID, actorID, TypeShare, &postID, nil)
}

func (s *service) NotifyComment(ctx context.Context, postOwnerID, actorID, postID, commentID string) error {
	return s.repo.Create(ctx, postOwnerID, actorID, TypeComment, &postID, &commentID)
}

func (s *service) List(ctx context.Context, userID string, limit, offset int) ([]Notification, error) {
	return s.repo.GetByUser(ctx, userID, limit, offset)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
