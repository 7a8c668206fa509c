package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dapoadedire/vybe-backend/internal/posts"
)

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"zero", 0, "just now"},
		{"59 seconds", 59 * time.Second, "just now"},
		{"60 seconds", 60 * time.Second, "1m"},
		{"59 minutes", 59*time.Minute + 59*time.Second, "59m"},
		{"one hour", time.Hour, "1h"},
		{"23 hours", 23*time.Hour + 59*time.Minute, "23h"},
		{"one day", 24 * time.Hour, "1d"},
		{"six days", 6 * 24 * time.Hour, "6d"},
		{"one week", 7 * 24 * time.Hour, "1w"},
		{"three weeks", 21 * 24 * time.Hour, "3w"},
		{"thirty days becomes month", 30 * 24 * time.Hour, "1mo"},
		{"eleven months", 359 * 24 * time.Hour, "11mo"},
		{"one year", 365 * 24 * time.Hour, "1y"},
		{"two years", 730 * 24 * time.Hour, "2y"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatTimeAgo(now.Add(-tc.ago), now)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifySourcePrecedence(t *testing.T) {
	direct := map[string]struct{}{"bob": {}, "alice": {}}
	second := map[string]struct{}{"carol": {}}

	assert.Equal(t, SourceAuthored, ClassifySource("alice", "alice", direct, second))
	assert.Equal(t, SourceFollowing, ClassifySource("me", "bob", direct, second))
	assert.Equal(t, SourceNetwork, ClassifySource("me", "carol", direct, second))
	assert.Equal(t, SourceFeatured, ClassifySource("me", "stranger", direct, second))
}

func TestClassifySourceSelfFollowStaysAuthored(t *testing.T) {
	// A user following themselves must not relabel their own posts.
	direct := map[string]struct{}{"alice": {}}
	got := ClassifySource("alice", "alice", direct, nil)
	assert.Equal(t, SourceAuthored, got)
}

func TestClassifySourceEmptySetsMeanFeatured(t *testing.T) {
	got := ClassifySource("me", "someone", map[string]struct{}{}, map[string]struct{}{})
	assert.Equal(t, SourceFeatured, got)
}

func TestDisplayName(t *testing.T) {
	s := func(v string) *string { return &v }

	cases := []struct {
		name   string
		author Author
		want   string
	}{
		{"first and last", Author{FirstName: s("jane"), LastName: s("doe"), Username: "jd"}, "Jane Doe"},
		{"first only", Author{FirstName: s("jane"), Username: "jd"}, "Jane"},
		{"last only", Author{LastName: s("van der berg"), Username: "jd"}, "Van Der Berg"},
		{"username fallback", Author{Username: "jd"}, "jd"},
		{"nothing set", Author{}, "User"},
		{"whitespace names fall through", Author{FirstName: s("  "), Username: "jd"}, "jd"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayName(&tc.author))
		})
	}
}

func TestNewPostViewMissingAuthor(t *testing.T) {
	now := time.Now()
	row := PostRow{
		ID:        "p1",
		AuthorID:  "u1",
		Content:   "hello",
		CreatedAt: now.Add(-2 * time.Hour),
	}

	view := NewPostView(row, SourceFeatured, nil, now)

	assert.Equal(t, "User", view.Author)
	assert.Equal(t, "@user", view.Handle)
	assert.Equal(t, "/avatars/default.png", view.AvatarURL)
	assert.Equal(t, "2h", view.TimeAgo)
	assert.Equal(t, "hello", view.Caption)
	assert.False(t, view.Liked)
	assert.NotNil(t, view.ImageURLs)
}

func TestNewPostViewInteractionFlags(t *testing.T) {
	now := time.Now()
	avatar := "https://cdn.example.com/a.png"
	row := PostRow{
		ID:        "p1",
		AuthorID:  "u1",
		CreatedAt: now,
		Author: &Author{
			ID:        "u1",
			Username:  "jane",
			AvatarURL: &avatar,
		},
		Likes:    3,
		Comments: 1,
		Shares:   2,
	}
	inter := &posts.InteractionSets{
		Liked:  map[string]struct{}{"p1": {}},
		Shared: map[string]struct{}{},
		Saved:  map[string]struct{}{"p1": {}},
	}

	view := NewPostView(row, SourceFollowing, inter, now)

	assert.True(t, view.Liked)
	assert.False(t, view.Shared)
	assert.True(t, view.Saved)
	assert.True(t, view.Following)
	assert.Equal(t, "@jane", view.Handle)
	assert.Equal(t, avatar, view.AvatarURL)
	assert.Equal(t, 3, view.Likes)
}

func TestNewPostViewImageFallback(t *testing.T) {
	now := time.Now()
	row := PostRow{
		ID:        "p1",
		AuthorID:  "u1",
		CreatedAt: now,
		ImageURLs: []string{"first.png", "second.png"},
	}

	view := NewPostView(row, SourceFeatured, nil, now)
	assert.Equal(t, "first.png", view.ImageURL)
}

func TestNewPostViewIsPure(t *testing.T) {
	now := time.Now()
	row := PostRow{ID: "p1", AuthorID: "u1", CreatedAt: now.Add(-time.Minute)}

	a := NewPostView(row, SourceFeatured, nil, now)
	b := NewPostView(row, SourceFeatured, nil, now)
	assert.Equal(t, a, b)
}
