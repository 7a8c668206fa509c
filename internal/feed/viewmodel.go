// internal/feed/viewmodel.go
// Pure mapping from stored post rows to the display-ready view model the
// client renders. No I/O happens here.

package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/dapoadedire/vybe-backend/internal/posts"
)

// Source labels why a post appears in a feed
type Source string

const (
	SourceAuthored  Source = "authored"
	SourceFollowing Source = "following"
	SourceNetwork   Source = "network"
	SourceFeatured  Source = "featured"
)

// PostView is the display-ready post object returned to the client. Field
// names mirror the client contract, hence the camelCase JSON tags.
type PostView struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Handle    string   `json:"handle"`
	AvatarURL string   `json:"avatarUrl"`
	ImageURL  string   `json:"imageUrl"`
	ImageURLs []string `json:"imageUrls"`
	Liked     bool     `json:"liked"`
	Likes     int      `json:"likes"`
	Comments  int      `json:"comments"`
	Shares    int      `json:"shares"`
	Shared    bool     `json:"shared"`
	Saved     bool     `json:"saved"`
	TimeAgo   string   `json:"timeAgo"`
	Caption   string   `json:"caption"`
	Following bool     `json:"following"`
	Source    Source   `json:"postSource"`
	UserID    string   `json:"userId"`
}

// Author is the joined author data for a post row. A nil Author on a PostRow
// means join resolution failed and a fallback lookup is needed.
type Author struct {
	ID        string
	Username  string
	FirstName *string
	LastName  *string
	AvatarURL *string
}

// PostRow is a post row parsed from the store, validated once at the
// repository boundary.
type PostRow struct {
	ID        string
	AuthorID  string
	Content   string
	ImageURL  *string
	ImageURLs []string
	CreatedAt time.Time
	Author    *Author
	Likes     int
	Comments  int
	Shares    int
}

const (
	defaultAvatarURL  = "/avatars/default.png"
	placeholderName   = "User"
	placeholderHandle = "@user"
)

// ClassifySource decides the relationship label for a post. Precedence is
// authored, then following, then network, then featured. The authored check
// runs first so a self-follow edge can never relabel the requester's posts.
func ClassifySource(requesterID, authorID string, direct, second map[string]struct{}) Source {
	if authorID == requesterID {
		return SourceAuthored
	}
	if _, ok := direct[authorID]; ok {
		return SourceFollowing
	}
	if _, ok := second[authorID]; ok {
		return SourceNetwork
	}
	return SourceFeatured
}

// NewPostView maps one parsed row into the view model. Pure: identical input
// and clock yield identical output. A row with a missing author maps to
// placeholder name and handle rather than failing.
func NewPostView(row PostRow, source Source, inter *posts.InteractionSets, now time.Time) PostView {
	view := PostView{
		ID:        row.ID,
		Author:    placeholderName,
		Handle:    placeholderHandle,
		AvatarURL: defaultAvatarURL,
		ImageURLs: row.ImageURLs,
		Likes:     row.Likes,
		Comments:  row.Comments,
		Shares:    row.Shares,
		TimeAgo:   FormatTimeAgo(row.CreatedAt, now),
		Caption:   row.Content,
		Source:    source,
		Following: source == SourceFollowing,
		UserID:    row.AuthorID,
	}

	if row.ImageURL != nil {
		view.ImageURL = *row.ImageURL
	} else if len(row.ImageURLs) > 0 {
		view.ImageURL = row.ImageURLs[0]
	}
	if view.ImageURLs == nil {
		view.ImageURLs = []string{}
	}

	if row.Author != nil {
		view.Author = DisplayName(row.Author)
		if row.Author.Username != "" {
			view.Handle = "@" + row.Author.Username
		}
		if row.Author.AvatarURL != nil && *row.Author.AvatarURL != "" {
			view.AvatarURL = *row.Author.AvatarURL
		}
	}

	if inter != nil {
		_, view.Liked = inter.Liked[row.ID]
		_, view.Shared = inter.Shared[row.ID]
		_, view.Saved = inter.Saved[row.ID]
	}

	return view
}

// DisplayName picks the best available author name: first+last, then first,
// then last, then username, then a literal placeholder. Name parts are
// capitalized word by word.
func DisplayName(author *Author) string {
	first := deref(author.FirstName)
	last := deref(author.LastName)

	switch {
	case first != "" && last != "":
		return capitalizeWords(first + " " + last)
	case first != "":
		return capitalizeWords(first)
	case last != "":
		return capitalizeWords(last)
	case author.Username != "":
		return author.Username
	default:
		return placeholderName
	}
}

// FormatTimeAgo renders a compact relative timestamp: "just now" under a
// minute, then m/h/d/w/mo/y buckets.
func FormatTimeAgo(createdAt, now time.Time) string {
	seconds := int64(now.Sub(createdAt).Seconds())
	if seconds < 60 {
		return "just now"
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}

	weeks := days / 7
	if weeks < 4 {
		return fmt.Sprintf("%dw", weeks)
	}

	months := days / 30
	if months < 12 {
		return fmt.Sprintf("%dmo", months)
	}

	years := days / 365
	return fmt.Sprintf("%dy", years)
}

func capitalizeWords(s string) string {
	fields := strings.Fields(s)
	for i, word := range fields {
		fields[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(fields, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
