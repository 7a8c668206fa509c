// internal/common/database/redis.go

package database

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// OpenRedis builds a client from a redis:// URL and verifies the connection
// with a ping bounded by ctx. Callers treat redis as optional, so a failure
// here is reported rather than fatal.
func OpenRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
