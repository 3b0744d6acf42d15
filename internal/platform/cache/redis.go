// Package cache owns the Redis client setup.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis and pings it. The client is returned even when the
// ping fails so callers that treat the cache as optional can degrade
// instead of aborting; the error reports the ping outcome.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return client, client.Ping(ctx).Err()
}
