package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bizhub-erp/bizhub/internal/tenant"
)

const bumpChannel = "reports.bump"

// Cache wraps Redis-based caching with a per-tenant version. Bumping a
// tenant's version orphans every key computed under the old one, so a write
// in any posting table invalidates all of that tenant's cached reports at
// once without touching other tenants.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching;
// every call falls through to the loader.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func versionKey(key tenant.Key) string {
	return "reports:ver:" + key.String()
}

// Version returns the tenant's current cache version, initialising when
// missing.
func (c *Cache) Version(ctx context.Context, key tenant.Key) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey(key)).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, versionKey(key), 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	if ver <= 0 {
		ver = 1
		if err := c.client.Set(ctx, versionKey(key), ver, 0).Err(); err != nil {
			return 0, err
		}
	}
	return ver, nil
}

// BuildKey composes a cache key scoped to the tenant's current version.
func (c *Cache) BuildKey(ctx context.Context, key tenant.Key, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"reports", key.String()}, parts...), ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.Version(ctx, key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON loads a cached value or populates it using the loader.
func (c *Cache) FetchJSON(ctx context.Context, cacheKey string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	if loader == nil {
		return errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return json.Unmarshal(raw, dest)
	}
	payload, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if err != redis.Nil {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump invalidates the tenant's cached reports by incrementing its version
// and publishing the change for other instances.
func (c *Cache) Bump(ctx context.Context, key tenant.Key) error {
	if c == nil || c.client == nil {
		return nil
	}
	ver, err := c.client.Incr(ctx, versionKey(key)).Result()
	if err != nil {
		return err
	}
	payload := key.String() + ":" + strconv.FormatInt(ver, 10)
	return c.client.Publish(ctx, bumpChannel, payload).Err()
}

// ListenForInvalidation subscribes to version bump notifications so that
// instances sharing the Redis keep their version views converged.
func (c *Cache) ListenForInvalidation(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	pubsub := c.client.Subscribe(ctx, bumpChannel)
	go func() {
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				raw, verPart, found := strings.Cut(msg.Payload, ":")
				if !found {
					continue
				}
				if ver, err := strconv.ParseInt(verPart, 10, 64); err == nil {
					_ = c.client.Set(ctx, versionKey(tenant.Key(raw)), ver, 0).Err()
				}
			}
		}
	}()
	return nil
}
