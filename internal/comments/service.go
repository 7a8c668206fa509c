// internal/comments/service.go

package comments

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrForbidden       = errors.New("not allowed")
	ErrEmptyComment    = errors.New("comment content is required")
)

// Notifier tells the post owner someone commented. Implemented by the
// notifications service.
type Notifier interface {
	NotifyComment(ctx context.Context, postOwnerID, actorID, postID, commentID string) error
}

type Service interface {
	Create(ctx context.Context, postID, userID string, req *CreateCommentRequest) (*Comment, error)
	GetThread(ctx context.Context, postID string) ([]CommentNode, error)
	Delete(ctx context.Context, commentID, userID string) error
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) Create(ctx context.Context, postID, userID string, req *CreateCommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyComment
	}

	owner, err := s.repo.GetPostOwner(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.Create(ctx, postID, userID, req.ParentID, content)
	if err != nil {
		return nil, err
	}

	// Self-comments don't notify. Notification failure never fails the write.
	if owner != userID && s.notifier != nil {
		if err := s.notifier.NotifyComment(ctx, owner, userID, postID, comment.ID); err != nil {
			log.Printf("comments: notify failed for post %s: %v", postID, err)
		}
	}
	return comment, nil
}

func (s *service) GetThread(ctx context.Context, postID string) ([]CommentNode, error) {
	flat, err := s.repo.GetByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

func (s *service) Delete(ctx context.Context, commentID, userID string) error {
	comment, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, commentID)
}

// BuildTree threads a flat comment list one level deep. A reply whose parent
// is missing from the list, or is not itself a top-level comment, is promoted
// to a root rather than dropped, so the output always carries every input
// comment exactly once. Roots and each replies list come back sorted by
// creation time ascending.
func BuildTree(flat []Comment) []CommentNode {
	rootIDs := make(map[string]bool, len(flat))
	for _, c := range flat {
		if c.ParentID == nil {
			rootIDs[c.ID] = true
		}
	}

	var roots []CommentNode
	replies := make(map[string][]CommentNode)

	for _, c := range flat {
		node := CommentNode{Comment: c, Replies: []CommentNode{}}
		if c.ParentID != nil && rootIDs[*c.ParentID] {
			replies[*c.ParentID] = append(replies[*c.ParentID], node)
		} else {
			roots = append(roots, node)
		}
	}

	for i := range roots {
		children := replies[roots[i].ID]
		sort.SliceStable(children, func(a, b int) bool {
			return children[a].CreatedAt.Before(children[b].CreatedAt)
		})
		if children != nil {
			roots[i].Replies = children
		}
	}
	sort.SliceStable(roots, func(a, b int) bool {
		return roots[a].CreatedAt.Before(roots[b].CreatedAt)
	})

	if roots == nil {
		roots = []CommentNode{}
	}
	return roots
}
