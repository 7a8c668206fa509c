package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapoadedire/vybe-backend/internal/posts"
)

type fakeRepo struct {
	rows       []PostRow
	savedIDs   []string
	authors    map[string]Author
	authorsErr error
}

func (f *fakeRepo) FetchByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]PostRow, error) {
	allowed := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = true
	}
	var out []PostRow
	for _, row := range f.rows {
		if allowed[row.AuthorID] {
			out = append(out, row)
		}
	}
	if offset >= len(out) {
		return []PostRow{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeRepo) FetchAll(ctx context.Context, maxRows int) ([]PostRow, error) {
	out := make([]PostRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRepo) FetchSavedBy(ctx context.Context, userID string, limit, offset int) ([]PostRow, error) {
	saved := make(map[string]bool, len(f.savedIDs))
	for _, id := range f.savedIDs {
		saved[id] = true
	}
	var out []PostRow
	for _, row := range f.rows {
		if saved[row.ID] {
			out = append(out, row)
		}
	}
	if offset >= len(out) {
		return []PostRow{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeRepo) FetchAuthors(ctx context.Context, ids []string) (map[string]Author, error) {
	if f.authorsErr != nil {
		return nil, f.authorsErr
	}
	return f.authors, nil
}

type fakeFollows struct {
	direct    map[string]struct{}
	second    map[string]struct{}
	directErr error
}

func (f *fakeFollows) GetFollowingIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	if f.directErr != nil {
		return nil, f.directErr
	}
	return f.direct, nil
}

func (f *fakeFollows) GetSecondLevelFollowingIDs(ctx context.Context, userID string, direct map[string]struct{}) (map[string]struct{}, error) {
	return f.second, nil
}

type fakeInteractions struct {
	sets *posts.InteractionSets
	err  error
}

func (f *fakeInteractions) GetInteractionSets(ctx context.Context, userID string) (*posts.InteractionSets, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sets, nil
}

func emptySets() *posts.InteractionSets {
	return &posts.InteractionSets{
		Liked:  map[string]struct{}{},
		Shared: map[string]struct{}{},
		Saved:  map[string]struct{}{},
	}
}

func rowFor(postID, authorID string) PostRow {
	return PostRow{
		ID:        postID,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
		Author:    &Author{ID: authorID, Username: authorID},
	}
}

func newTestService(repo Repository, follows FollowGraph, inter Interactions) Service {
	return NewService(repo, follows, inter)
}

func TestForYouLabelsByRelationship(t *testing.T) {
	repo := &fakeRepo{rows: []PostRow{
		rowFor("p1", "friend"),
		rowFor("p2", "friend-of-friend"),
		rowFor("p3", "stranger"),
	}}
	graph := &fakeFollows{
		direct: map[string]struct{}{"friend": {}},
		second: map[string]struct{}{"friend-of-friend": {}},
	}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.ForYou(context.Background(), "me", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)

	bySource := map[string]Source{}
	for _, v := range views {
		bySource[v.ID] = v.Source
	}
	assert.Equal(t, SourceFollowing, bySource["p1"])
	assert.Equal(t, SourceNetwork, bySource["p2"])
	assert.NotContains(t, bySource, "p3")
}

func TestFollowingFeedOnlyDirect(t *testing.T) {
	repo := &fakeRepo{rows: []PostRow{
		rowFor("p1", "friend"),
		rowFor("p2", "friend-of-friend"),
	}}
	graph := &fakeFollows{
		direct: map[string]struct{}{"friend": {}},
		second: map[string]struct{}{"friend-of-friend": {}},
	}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.Following(context.Background(), "me", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "p1", views[0].ID)
}

func TestFollowGraphFailureDegradesToFeatured(t *testing.T) {
	repo := &fakeRepo{rows: []PostRow{rowFor("p1", "friend")}}
	graph := &fakeFollows{directErr: errors.New("graph down")}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.Explore(context.Background(), "me", 10, 0, 99)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, SourceFeatured, views[0].Source)
}

func TestInteractionFailureFailsTheFeed(t *testing.T) {
	repo := &fakeRepo{rows: []PostRow{rowFor("p1", "friend")}}
	graph := &fakeFollows{direct: map[string]struct{}{"friend": {}}}
	svc := newTestService(repo, graph, &fakeInteractions{err: errors.New("db down")})

	_, err := svc.ForYou(context.Background(), "me", 10, 0)
	assert.Error(t, err)
}

func TestExplorePaginationIsStableWhileSeedHeld(t *testing.T) {
	var rows []PostRow
	for i := 0; i < 30; i++ {
		rows = append(rows, rowFor(fmt.Sprintf("p%d", i), "someone"))
	}
	repo := &fakeRepo{rows: rows}
	graph := &fakeFollows{direct: map[string]struct{}{}}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})
	ctx := context.Background()

	const seed = int64(424242)
	page1, err := svc.Explore(ctx, "me", 10, 0, seed)
	require.NoError(t, err)
	page2, err := svc.Explore(ctx, "me", 10, 10, seed)
	require.NoError(t, err)

	again1, err := svc.Explore(ctx, "me", 10, 0, seed)
	require.NoError(t, err)
	assert.Equal(t, page1, again1)

	// Consecutive pages never overlap under one seed.
	seen := map[string]bool{}
	for _, v := range page1 {
		seen[v.ID] = true
	}
	for _, v := range page2 {
		assert.False(t, seen[v.ID], "post %s appeared on both pages", v.ID)
	}
}

func TestExploreOffsetPastEndIsEmpty(t *testing.T) {
	repo := &fakeRepo{rows: []PostRow{rowFor("p1", "a")}}
	graph := &fakeFollows{direct: map[string]struct{}{}}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.Explore(context.Background(), "me", 10, 50, 7)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestSavedBoardRendersViewModel(t *testing.T) {
	repo := &fakeRepo{
		rows: []PostRow{
			rowFor("p1", "friend"),
			rowFor("p2", "stranger"),
		},
		savedIDs: []string{"p1"},
	}
	graph := &fakeFollows{direct: map[string]struct{}{"friend": {}}}
	sets := emptySets()
	sets.Saved["p1"] = struct{}{}
	svc := newTestService(repo, graph, &fakeInteractions{sets: sets})

	views, err := svc.Saved(context.Background(), "me", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)

	// Saved posts carry the same labels and flags as any other board.
	assert.Equal(t, "p1", views[0].ID)
	assert.True(t, views[0].Saved)
	assert.Equal(t, SourceFollowing, views[0].Source)
	assert.Equal(t, "@friend", views[0].Handle)
}

func TestRenderSplicesMissingAuthors(t *testing.T) {
	first := "Jane"
	repo := &fakeRepo{
		rows: []PostRow{{
			ID:        "p1",
			AuthorID:  "u1",
			CreatedAt: time.Now(),
		}},
		authors: map[string]Author{
			"u1": {ID: "u1", Username: "jane", FirstName: &first},
		},
	}
	graph := &fakeFollows{direct: map[string]struct{}{}}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.MyFeed(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Jane", views[0].Author)
	assert.Equal(t, "@jane", views[0].Handle)
}

func TestRenderAuthorSpliceFailureKeepsPlaceholder(t *testing.T) {
	repo := &fakeRepo{
		rows: []PostRow{{
			ID:        "p1",
			AuthorID:  "u1",
			CreatedAt: time.Now(),
		}},
		authorsErr: errors.New("users table gone"),
	}
	graph := &fakeFollows{direct: map[string]struct{}{}}
	svc := newTestService(repo, graph, &fakeInteractions{sets: emptySets()})

	views, err := svc.MyFeed(context.Background(), "u1", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "User", views[0].Author)
	assert.Equal(t, "@user", views[0].Handle)
}
