package comments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comment(id string, parentID *string, createdAt time.Time) Comment {
	return Comment{
		ID:        id,
		PostID:    "post",
		UserID:    "user",
		ParentID:  parentID,
		Content:   "text",
		CreatedAt: createdAt,
	}
}

func ptr(s string) *string { return &s }

func countNodes(nodes []CommentNode) int {
	total := 0
	for _, n := range nodes {
		total += 1 + len(n.Replies)
	}
	return total
}

func TestBuildTreeThreadsReplies(t *testing.T) {
	base := time.Now()
	flat := []Comment{
		comment("root1", nil, base),
		comment("reply1", ptr("root1"), base.Add(time.Minute)),
		comment("root2", nil, base.Add(2*time.Minute)),
		comment("reply2", ptr("root1"), base.Add(3*time.Minute)),
	}

	tree := BuildTree(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, "root1", tree[0].ID)
	assert.Equal(t, "root2", tree[1].ID)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "reply1", tree[0].Replies[0].ID)
	assert.Equal(t, "reply2", tree[0].Replies[1].ID)
	assert.Equal(t, 4, countNodes(tree))
}

func TestBuildTreePromotesOrphans(t *testing.T) {
	base := time.Now()
	flat := []Comment{
		comment("root1", nil, base),
		comment("orphan", ptr("deleted-parent"), base.Add(time.Minute)),
	}

	tree := BuildTree(flat)

	// The orphan surfaces as a root instead of disappearing.
	require.Len(t, tree, 2)
	assert.Equal(t, "root1", tree[0].ID)
	assert.Equal(t, "orphan", tree[1].ID)
	assert.Equal(t, 2, countNodes(tree))
}

func TestBuildTreeConservesEveryComment(t *testing.T) {
	base := time.Now()
	flat := []Comment{
		comment("a", nil, base),
		comment("b", ptr("a"), base.Add(time.Second)),
		comment("c", ptr("b"), base.Add(2*time.Second)),
		comment("d", ptr("missing"), base.Add(3*time.Second)),
		comment("e", nil, base.Add(4*time.Second)),
	}

	tree := BuildTree(flat)
	assert.Equal(t, len(flat), countNodes(tree))
}

func TestBuildTreeSortsAscending(t *testing.T) {
	base := time.Now()
	// Deliberately out of order.
	flat := []Comment{
		comment("late-root", nil, base.Add(time.Hour)),
		comment("early-root", nil, base),
		comment("late-reply", ptr("early-root"), base.Add(2*time.Hour)),
		comment("early-reply", ptr("early-root"), base.Add(time.Minute)),
	}

	tree := BuildTree(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, "early-root", tree[0].ID)
	assert.Equal(t, "late-root", tree[1].ID)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "early-reply", tree[0].Replies[0].ID)
	assert.Equal(t, "late-reply", tree[0].Replies[1].ID)
}

func TestBuildTreeEmptyInput(t *testing.T) {
	tree := BuildTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

type fakeRepo struct {
	comments  map[string]*Comment
	postOwner map[string]string
	deleted   []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		comments:  make(map[string]*Comment),
		postOwner: make(map[string]string),
	}
}

func (f *fakeRepo) Create(ctx context.Context, postID, userID string, parentID *string, content string) (*Comment, error) {
	c := &Comment{
		ID:        "c" + content,
		PostID:    postID,
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, ErrCommentNotFound
	}
	return c, nil
}

func (f *fakeRepo) GetByPost(ctx context.Context, postID string) ([]Comment, error) {
	var out []Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return ErrCommentNotFound
	}
	delete(f.comments, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) GetPostOwner(ctx context.Context, postID string) (string, error) {
	owner, ok := f.postOwner[postID]
	if !ok {
		return "", ErrPostNotFound
	}
	return owner, nil
}

func TestDeleteRequiresOwnership(t *testing.T) {
	repo := newFakeRepo()
	repo.comments["c1"] = &Comment{ID: "c1", PostID: "p1", UserID: "writer"}
	svc := NewService(repo, nil)

	err := svc.Delete(context.Background(), "c1", "intruder")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, repo.comments, "c1")

	err = svc.Delete(context.Background(), "c1", "writer")
	require.NoError(t, err)
	assert.Equal(t, []string{"c1"}, repo.deleted)
}

func TestDeleteMissingComment(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)

	err := svc.Delete(context.Background(), "ghost", "anyone")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCreateRejectsBlankContent(t *testing.T) {
	repo := newFakeRepo()
	repo.postOwner["p1"] = "owner"
	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), "p1", "writer", &CreateCommentRequest{Content: "  \n "})
	assert.ErrorIs(t, err, ErrEmptyComment)
}
