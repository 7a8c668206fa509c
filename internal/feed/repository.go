package feed

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository reads post rows for feed assembly. Author data is resolved by an
// ordered list of strategies so a broken join path degrades instead of
// emptying the feed.
type Repository interface {
	// FetchByAuthors returns posts authored by any of the given users,
	// newest first.
	FetchByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]PostRow, error)
	// FetchAll returns up to maxRows posts across all authors in no
	// particular order. Callers shuffle and paginate the result.
	FetchAll(ctx context.Context, maxRows int) ([]PostRow, error)
	// FetchSavedBy returns posts the user has saved, most recently saved
	// first.
	FetchSavedBy(ctx context.Context, userID string, limit, offset int) ([]PostRow, error)
	// FetchAuthors loads author records by ID for rows whose join
	// resolution came back empty.
	FetchAuthors(ctx context.Context, ids []string) (map[string]Author, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// authorStrategy is one way of attaching author data to the post query.
// Strategies are tried in order; a strategy whose rows all come back without
// author data yields to the next one.
type authorStrategy struct {
	name       string
	authorJoin string
}

var authorStrategies = []authorStrategy{
	{
		name:       "join",
		authorJoin: `LEFT JOIN users u ON u.id = p.user_id`,
	},
	{
		name: "lateral",
		authorJoin: `LEFT JOIN LATERAL (
			SELECT id, username, first_name, last_name, avatar_url
			FROM users WHERE id = p.user_id
		) u ON TRUE`,
	},
}

const postColumns = `
	p.id, p.user_id, p.content, p.image_url,
	COALESCE(p.image_urls, '{}') AS image_urls, p.created_at,
	u.id AS author_id, u.username, u.first_name, u.last_name, u.avatar_url,
	COUNT(DISTINCT l.user_id) AS likes_count,
	COUNT(DISTINCT c.id)      AS comments_count,
	COUNT(DISTINCT sh.user_id) AS shares_count`

const postJoins = `
	LEFT JOIN post_likes l   ON l.post_id = p.id
	LEFT JOIN comments c     ON c.post_id = p.id
	LEFT JOIN post_shares sh ON sh.post_id = p.id`

type rawPostRow struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Content   string         `db:"content"`
	ImageURL  sql.NullString `db:"image_url"`
	ImageURLs pq.StringArray `db:"image_urls"`
	CreatedAt time.Time      `db:"created_at"`

	AuthorID  sql.NullString `db:"author_id"`
	Username  sql.NullString `db:"username"`
	FirstName sql.NullString `db:"first_name"`
	LastName  sql.NullString `db:"last_name"`
	AvatarURL sql.NullString `db:"avatar_url"`

	Likes    int `db:"likes_count"`
	Comments int `db:"comments_count"`
	Shares   int `db:"shares_count"`
}

func (r *postgresRepository) FetchByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]PostRow, error) {
	if len(authorIDs) == 0 {
		return []PostRow{}, nil
	}
	return r.fetchWithStrategies(ctx,
		`WHERE p.user_id = ANY($1)
		 GROUP BY p.id, u.id, u.username, u.first_name, u.last_name, u.avatar_url
		 ORDER BY p.created_at DESC
		 LIMIT $2 OFFSET $3`,
		pq.Array(authorIDs), limit, offset)
}

func (r *postgresRepository) FetchSavedBy(ctx context.Context, userID string, limit, offset int) ([]PostRow, error) {
	return r.fetchWithStrategies(ctx,
		`JOIN saved_posts sp ON sp.post_id = p.id AND sp.user_id = $1
		 GROUP BY p.id, u.id, u.username, u.first_name, u.last_name, u.avatar_url
		 ORDER BY MAX(sp.created_at) DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset)
}

func (r *postgresRepository) FetchAll(ctx context.Context, maxRows int) ([]PostRow, error) {
	return r.fetchWithStrategies(ctx,
		`GROUP BY p.id, u.id, u.username, u.first_name, u.last_name, u.avatar_url
		 ORDER BY p.created_at DESC
		 LIMIT $1`,
		maxRows)
}

// fetchWithStrategies runs the post query once per author strategy until one
// of them yields author data. If every strategy comes back authorless the
// rows from the first strategy are returned as-is and the caller splices
// authors in via FetchAuthors.
func (r *postgresRepository) fetchWithStrategies(ctx context.Context, tail string, args ...interface{}) ([]PostRow, error) {
	var first []PostRow
	for i, strategy := range authorStrategies {
		query := fmt.Sprintf("SELECT %s FROM posts p %s %s %s",
			postColumns, strategy.authorJoin, postJoins, tail)

		var raw []rawPostRow
		if err := r.db.SelectContext(ctx, &raw, query, args...); err != nil {
			if i == len(authorStrategies)-1 && first != nil {
				return first, nil
			}
			if i == len(authorStrategies)-1 {
				return nil, fmt.Errorf("fetching posts: %w", err)
			}
			log.Printf("feed: author strategy %q failed, trying next: %v", strategy.name, err)
			continue
		}

		rows, err := parseRows(raw)
		if err != nil {
			return nil, err
		}
		if hasAuthors(rows) || len(rows) == 0 {
			authorResolutionHits.WithLabelValues(strategy.name).Inc()
			return rows, nil
		}
		if first == nil {
			first = rows
		}
	}
	authorResolutionHits.WithLabelValues("splice").Inc()
	return first, nil
}

func (r *postgresRepository) FetchAuthors(ctx context.Context, ids []string) (map[string]Author, error) {
	if len(ids) == 0 {
		return map[string]Author{}, nil
	}

	var raw []struct {
		ID        string         `db:"id"`
		Username  string         `db:"username"`
		FirstName sql.NullString `db:"first_name"`
		LastName  sql.NullString `db:"last_name"`
		AvatarURL sql.NullString `db:"avatar_url"`
	}
	err := r.db.SelectContext(ctx, &raw,
		`SELECT id, username, first_name, last_name, avatar_url
		 FROM users WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("fetching authors: %w", err)
	}

	authors := make(map[string]Author, len(raw))
	for _, u := range raw {
		authors[u.ID] = Author{
			ID:        u.ID,
			Username:  u.Username,
			FirstName: nullablePtr(u.FirstName),
			LastName:  nullablePtr(u.LastName),
			AvatarURL: nullablePtr(u.AvatarURL),
		}
	}
	return authors, nil
}

// parseRows validates raw rows once at the repository boundary so everything
// downstream can trust the shape.
func parseRows(raw []rawPostRow) ([]PostRow, error) {
	rows := make([]PostRow, 0, len(raw))
	for _, rr := range raw {
		if rr.ID == "" || rr.UserID == "" {
			return nil, fmt.Errorf("malformed post row: missing id or user_id")
		}
		if rr.CreatedAt.IsZero() {
			return nil, fmt.Errorf("malformed post row %s: zero created_at", rr.ID)
		}

		row := PostRow{
			ID:        rr.ID,
			AuthorID:  rr.UserID,
			Content:   rr.Content,
			ImageURL:  nullablePtr(rr.ImageURL),
			ImageURLs: rr.ImageURLs,
			CreatedAt: rr.CreatedAt,
			Likes:     rr.Likes,
			Comments:  rr.Comments,
			Shares:    rr.Shares,
		}
		if rr.AuthorID.Valid && rr.Username.Valid {
			row.Author = &Author{
				ID:        rr.AuthorID.String,
				Username:  rr.Username.String,
				FirstName: nullablePtr(rr.FirstName),
				LastName:  nullablePtr(rr.LastName),
				AvatarURL: nullablePtr(rr.AvatarURL),
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func hasAuthors(rows []PostRow) bool {
	for _, row := range rows {
		if row.Author != nil {
			return true
		}
	}
	return false
}

func nullablePtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
