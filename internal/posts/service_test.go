// internal/posts/service_test.go

package posts

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapoadedire/vybe-backend/internal/auth"
)

type fakeRepo struct {
	posts     map[string]*Post
	relations map[Relation]map[string]bool
	deleted   []string
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:     make(map[string]*Post),
		relations: make(map[Relation]map[string]bool),
	}
}

func (f *fakeRepo) addPost(id, userID string) *Post {
	post := &Post{ID: id, UserID: userID, Content: "hello", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.posts[id] = post
	return post
}

func relKey(userID, postID string) string { return userID + "|" + postID }

func (f *fakeRepo) CreatePost(ctx context.Context, post *Post) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID] = post
	return nil
}

func (f *fakeRepo) GetPostByID(ctx context.Context, postID string) (*Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (f *fakeRepo) GetPostOwner(ctx context.Context, postID string) (string, error) {
	post, ok := f.posts[postID]
	if !ok {
		return "", ErrPostNotFound
	}
	return post.UserID, nil
}

func (f *fakeRepo) UpdatePost(ctx context.Context, postID string, req *UpdatePostRequest) error {
	post, ok := f.posts[postID]
	if !ok {
		return ErrPostNotFound
	}
	post.Content = req.Content
	return nil
}

func (f *fakeRepo) DeletePost(ctx context.Context, postID string) error {
	if _, ok := f.posts[postID]; !ok {
		return ErrPostNotFound
	}
	delete(f.posts, postID)
	f.deleted = append(f.deleted, postID)
	return nil
}

func (f *fakeRepo) HasRelation(ctx context.Context, rel Relation, userID, postID string) (bool, error) {
	return f.relations[rel][relKey(userID, postID)], nil
}

func (f *fakeRepo) AddRelation(ctx context.Context, rel Relation, userID, postID string) error {
	if f.relations[rel] == nil {
		f.relations[rel] = make(map[string]bool)
	}
	f.relations[rel][relKey(userID, postID)] = true
	return nil
}

func (f *fakeRepo) RemoveRelation(ctx context.Context, rel Relation, userID, postID string) error {
	delete(f.relations[rel], relKey(userID, postID))
	return nil
}

func (f *fakeRepo) GetRelatedPostIDs(ctx context.Context, rel Relation, userID string) ([]string, error) {
	var ids []string
	prefix := userID + "|"
	for key, set := range f.relations[rel] {
		if set && strings.HasPrefix(key, prefix) {
			ids = append(ids, strings.TrimPrefix(key, prefix))
		}
	}
	return ids, nil
}

type fakeEnsurer struct {
	calls int
}

func (f *fakeEnsurer) EnsureUserRow(ctx context.Context, seed *auth.ProfileSeed) error {
	f.calls++
	return nil
}

type notifyCall struct {
	kind        string
	recipientID string
	actorID     string
	postID      string
}

type fakeNotifier struct {
	calls []notifyCall
}

func (f *fakeNotifier) NotifyLike(ctx context.Context, recipientID, actorID, postID string) error {
	f.calls = append(f.calls, notifyCall{"like", recipientID, actorID, postID})
	return nil
}

func (f *fakeNotifier) NotifyShare(ctx context.Context, recipientID, actorID, postID string) error {
	f.calls = append(f.calls, notifyCall{"share", recipientID, actorID, postID})
	return nil
}

func newTestService(repo Repository, notifier Notifier) *Service {
	return NewService(repo, nil, &fakeEnsurer{}, notifier)
}

func TestToggleAlternation(t *testing.T) {
	cases := []struct {
		name   string
		rel    Relation
		toggle func(s *Service) func(context.Context, string, string) (bool, error)
	}{
		{"like", RelationLike, func(s *Service) func(context.Context, string, string) (bool, error) { return s.ToggleLike }},
		{"share", RelationShare, func(s *Service) func(context.Context, string, string) (bool, error) { return s.ToggleShare }},
		{"save", RelationSave, func(s *Service) func(context.Context, string, string) (bool, error) { return s.ToggleSave }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			repo.addPost("p1", "author")
			svc := newTestService(repo, nil)
			toggle := tc.toggle(svc)

			on, err := toggle(context.Background(), "p1", "viewer")
			require.NoError(t, err)
			assert.True(t, on, "first toggle should set the relation")
			assert.True(t, repo.relations[tc.rel][relKey("viewer", "p1")])

			off, err := toggle(context.Background(), "p1", "viewer")
			require.NoError(t, err)
			assert.False(t, off, "second toggle should clear the relation")
			assert.False(t, repo.relations[tc.rel][relKey("viewer", "p1")])

			again, err := toggle(context.Background(), "p1", "viewer")
			require.NoError(t, err)
			assert.True(t, again, "third toggle should set it again")
		})
	}
}

func TestToggleMissingPost(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)

	_, err := svc.ToggleLike(context.Background(), "ghost", "viewer")
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestToggleLikeNotifiesOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.addPost("p1", "author")
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.ToggleLike(context.Background(), "p1", "viewer")
	require.NoError(t, err)

	require.Len(t, notifier.calls, 1)
	assert.Equal(t, notifyCall{"like", "author", "viewer", "p1"}, notifier.calls[0])

	// Unliking must not notify
	_, err = svc.ToggleLike(context.Background(), "p1", "viewer")
	require.NoError(t, err)
	assert.Len(t, notifier.calls, 1)
}

func TestToggleLikeOwnPostSkipsNotification(t *testing.T) {
	repo := newFakeRepo()
	repo.addPost("p1", "author")
	notifier := &fakeNotifier{}
	svc := newTestService(repo, notifier)

	_, err := svc.ToggleLike(context.Background(), "p1", "author")
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
}

func TestUpdatePostRequiresOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.addPost("p1", "author")
	svc := newTestService(repo, nil)

	_, err := svc.UpdatePost(context.Background(), "p1", "intruder", &UpdatePostRequest{Content: "edited"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "hello", repo.posts["p1"].Content)

	updated, err := svc.UpdatePost(context.Background(), "p1", "author", &UpdatePostRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}

func TestDeletePostRequiresOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.addPost("p1", "author")
	svc := newTestService(repo, nil)

	err := svc.DeletePost(context.Background(), "p1", "intruder")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, repo.posts, "p1")

	err = svc.DeletePost(context.Background(), "p1", "author")
	require.NoError(t, err)
	assert.NotContains(t, repo.posts, "p1")
	assert.Equal(t, []string{"p1"}, repo.deleted)
}

func TestCreatePostRejectsEmpty(t *testing.T) {
	svc := newTestService(newFakeRepo(), nil)
	seed := &auth.ProfileSeed{UserID: "author"}

	_, err := svc.CreatePost(context.Background(), seed, &CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyPost)
}

func TestCreatePostMirrorsFirstImage(t *testing.T) {
	repo := newFakeRepo()
	ensurer := &fakeEnsurer{}
	svc := NewService(repo, nil, ensurer, nil)
	seed := &auth.ProfileSeed{UserID: "author"}

	post, err := svc.CreatePost(context.Background(), seed, &CreatePostRequest{
		ImageURLs: []string{"/a.png", "/b.png"},
	})
	require.NoError(t, err)

	require.NotNil(t, post.ImageURL)
	assert.Equal(t, "/a.png", *post.ImageURL)
	assert.Equal(t, 1, ensurer.calls, "profile row must be provisioned before insert")
}

func TestGetInteractionSets(t *testing.T) {
	repo := newFakeRepo()
	repo.addPost("p1", "author")
	repo.addPost("p2", "author")
	svc := newTestService(repo, nil)

	_, err := svc.ToggleLike(context.Background(), "p1", "viewer")
	require.NoError(t, err)
	_, err = svc.ToggleSave(context.Background(), "p2", "viewer")
	require.NoError(t, err)

	sets, err := svc.GetInteractionSets(context.Background(), "viewer")
	require.NoError(t, err)

	assert.Contains(t, sets.Liked, "p1")
	assert.NotContains(t, sets.Liked, "p2")
	assert.Contains(t, sets.Saved, "p2")
	assert.Empty(t, sets.Shared)
}
