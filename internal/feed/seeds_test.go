package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeedStoreLocalFallbackIsStable(t *testing.T) {
	store := NewSeedStore(nil, time.Minute)
	ctx := context.Background()

	first := store.Get(ctx, "alice", false)
	second := store.Get(ctx, "alice", false)
	assert.Equal(t, first, second)
}

func TestSeedStoreIsPerUser(t *testing.T) {
	store := NewSeedStore(nil, time.Minute)
	ctx := context.Background()

	alice := store.Get(ctx, "alice", false)
	store.Get(ctx, "bob", true)
	assert.Equal(t, alice, store.Get(ctx, "alice", false))
}
