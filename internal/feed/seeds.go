package feed

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// SeedStore hands out the per-user explore shuffle seed. The seed is held
// server-side so two requests for consecutive explore pages see the same
// permutation. When redis is unavailable it falls back to an in-process map,
// which keeps single-instance deployments working.
type SeedStore struct {
	redis *redis.Client
	ttl   time.Duration

	mu    sync.Mutex
	local map[string]int64
}

func NewSeedStore(client *redis.Client, ttl time.Duration) *SeedStore {
	return &SeedStore{
		redis: client,
		ttl:   ttl,
		local: make(map[string]int64),
	}
}

// Get returns the caller's current explore seed, minting a fresh one on
// first use, after expiry, or when refresh is set.
func (s *SeedStore) Get(ctx context.Context, userID string, refresh bool) int64 {
	if s.redis == nil {
		return s.getLocal(userID, refresh)
	}

	key := seedKey(userID)
	if !refresh {
		val, err := s.redis.Get(ctx, key).Result()
		if err == nil {
			if seed, perr := strconv.ParseInt(val, 10, 64); perr == nil {
				return seed
			}
		} else if err != redis.Nil {
			log.Printf("feed: seed lookup failed, using local fallback: %v", err)
			return s.getLocal(userID, refresh)
		}
	}

	seed := newSeed()
	if err := s.redis.Set(ctx, key, strconv.FormatInt(seed, 10), s.ttl).Err(); err != nil {
		log.Printf("feed: seed store failed: %v", err)
	}
	exploreSeedsIssued.Inc()
	return seed
}

func (s *SeedStore) getLocal(userID string, refresh bool) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seed, ok := s.local[userID]; ok && !refresh {
		return seed
	}
	seed := newSeed()
	s.local[userID] = seed
	exploreSeedsIssued.Inc()
	return seed
}

func newSeed() int64 {
	return time.Now().UnixNano()
}

func seedKey(userID string) string {
	return fmt.Sprintf("explore:seed:%s", userID)
}
