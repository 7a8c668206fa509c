package feed

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/dapoadedire/vybe-backend/internal/posts"
)

// FollowGraph supplies the requester's direct and second-level follow sets.
type FollowGraph interface {
	GetFollowingIDs(ctx context.Context, userID string) (map[string]struct{}, error)
	GetSecondLevelFollowingIDs(ctx context.Context, userID string, direct map[string]struct{}) (map[string]struct{}, error)
}

// Interactions supplies the requester's liked, shared and saved post ids.
type Interactions interface {
	GetInteractionSets(ctx context.Context, userID string) (*posts.InteractionSets, error)
}

// Service assembles feed pages: it gathers candidate posts, resolves authors,
// and maps rows into the view model with per-requester relationship labels.
type Service interface {
	ForYou(ctx context.Context, userID string, limit, offset int) ([]PostView, error)
	Following(ctx context.Context, userID string, limit, offset int) ([]PostView, error)
	Explore(ctx context.Context, userID string, limit, offset int, seed int64) ([]PostView, error)
	MyFeed(ctx context.Context, userID string, limit, offset int) ([]PostView, error)
	Saved(ctx context.Context, userID string, limit, offset int) ([]PostView, error)
	Profile(ctx context.Context, requesterID, authorID string, limit, offset int) ([]PostView, error)
}

type service struct {
	repo         Repository
	follows      FollowGraph
	interactions Interactions
	maxExplore   int
}

func NewService(repo Repository, follows FollowGraph, interactions Interactions) Service {
	return &service{
		repo:         repo,
		follows:      follows,
		interactions: interactions,
		maxExplore:   500,
	}
}

// requestContext is everything about the requester a page needs: follow sets
// for labeling and interaction sets for the liked/shared/saved flags.
type requestContext struct {
	direct       map[string]struct{}
	second       map[string]struct{}
	interactions *posts.InteractionSets
}

// loadRequestContext fetches follow sets and interaction sets concurrently
// and waits for both. A follow graph failure degrades to empty sets, so
// every post simply labels as featured. An interaction failure is fatal:
// rendering posts with wrong liked/saved flags would invite double toggles.
func (s *service) loadRequestContext(ctx context.Context, userID string) (*requestContext, error) {
	rc := &requestContext{
		direct: map[string]struct{}{},
		second: map[string]struct{}{},
	}
	if userID == "" {
		return rc, nil
	}

	var (
		wg       sync.WaitGroup
		interErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		direct, err := s.follows.GetFollowingIDs(ctx, userID)
		if err != nil {
			log.Printf("feed: follow graph unavailable for %s: %v", userID, err)
			followGraphFallbacks.Inc()
			return
		}
		second, err := s.follows.GetSecondLevelFollowingIDs(ctx, userID, direct)
		if err != nil {
			log.Printf("feed: second-level follow lookup failed for %s: %v", userID, err)
			followGraphFallbacks.Inc()
			rc.direct = direct
			return
		}
		rc.direct = direct
		rc.second = second
	}()
	go func() {
		defer wg.Done()
		rc.interactions, interErr = s.interactions.GetInteractionSets(ctx, userID)
	}()
	wg.Wait()

	if interErr != nil {
		return nil, interErr
	}
	return rc, nil
}

func (s *service) ForYou(ctx context.Context, userID string, limit, offset int) ([]PostView, error) {
	defer observe("for_you", time.Now())

	rc, err := s.loadRequestContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(rc.direct)+len(rc.second))
	for id := range rc.direct {
		candidates = append(candidates, id)
	}
	for id := range rc.second {
		if _, dup := rc.direct[id]; !dup {
			candidates = append(candidates, id)
		}
	}

	rows, err := s.repo.FetchByAuthors(ctx, candidates, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, rows, userID, rc), nil
}

func (s *service) Following(ctx context.Context, userID string, limit, offset int) ([]PostView, error) {
	defer observe("following", time.Now())

	rc, err := s.loadRequestContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, len(rc.direct))
	for id := range rc.direct {
		candidates = append(candidates, id)
	}

	rows, err := s.repo.FetchByAuthors(ctx, candidates, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, rows, userID, rc), nil
}

// Explore shuffles the candidate pool with the caller's seed and paginates
// the shuffled order, so page N+1 continues where page N stopped as long as
// the caller holds the same seed.
func (s *service) Explore(ctx context.Context, userID string, limit, offset int, seed int64) ([]PostView, error) {
	defer observe("explore", time.Now())

	rc, err := s.loadRequestContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FetchAll(ctx, s.maxExplore)
	if err != nil {
		return nil, err
	}

	Shuffle(rows, seed)

	rows = window(rows, limit, offset)
	return s.render(ctx, rows, userID, rc), nil
}

func (s *service) MyFeed(ctx context.Context, userID string, limit, offset int) ([]PostView, error) {
	defer observe("me", time.Now())

	rc, err := s.loadRequestContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FetchByAuthors(ctx, []string{userID}, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, rows, userID, rc), nil
}

// Saved returns the requester's saved board, most recently saved first,
// rendered through the same view model as every other board.
func (s *service) Saved(ctx context.Context, userID string, limit, offset int) ([]PostView, error) {
	defer observe("saved", time.Now())

	rc, err := s.loadRequestContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FetchSavedBy(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, rows, userID, rc), nil
}

// Profile returns one user's posts labeled from the requester's point of
// view. requesterID may be empty for unauthenticated viewers.
func (s *service) Profile(ctx context.Context, requesterID, authorID string, limit, offset int) ([]PostView, error) {
	defer observe("profile", time.Now())

	rc, err := s.loadRequestContext(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.FetchByAuthors(ctx, []string{authorID}, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, rows, requesterID, rc), nil
}

// render splices in authors for rows whose join resolution came back empty,
// then maps every row through the view model. Author splice failures leave
// placeholder identity rather than dropping posts.
func (s *service) render(ctx context.Context, rows []PostRow, requesterID string, rc *requestContext) []PostView {
	var missing []string
	for _, row := range rows {
		if row.Author == nil {
			missing = append(missing, row.AuthorID)
		}
	}
	if len(missing) > 0 {
		authors, err := s.repo.FetchAuthors(ctx, missing)
		if err != nil {
			log.Printf("feed: author splice failed: %v", err)
		} else {
			for i := range rows {
				if rows[i].Author != nil {
					continue
				}
				if author, ok := authors[rows[i].AuthorID]; ok {
					a := author
					rows[i].Author = &a
				}
			}
		}
	}

	now := time.Now()
	views := make([]PostView, 0, len(rows))
	for _, row := range rows {
		source := ClassifySource(requesterID, row.AuthorID, rc.direct, rc.second)
		views = append(views, NewPostView(row, source, rc.interactions, now))
	}
	return views
}

func window(rows []PostRow, limit, offset int) []PostRow {
	if offset >= len(rows) {
		return []PostRow{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func observe(variant string, start time.Time) {
	feedRequestsTotal.WithLabelValues(variant).Inc()
	feedAssemblyDuration.WithLabelValues(variant).Observe(time.Since(start).Seconds())
}
