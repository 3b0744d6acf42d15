package reports

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/bizhub-erp/bizhub/internal/tenant"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCache(client, time.Minute)
}

func TestBuildKeyEmbedsTenantVersion(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()
	key := tenant.Key("9876543210")

	first, err := cache.BuildKey(ctx, key, "sales", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Equal(t, "reports:9876543210:sales:2026-01-01:2026-01-31:1", first)

	require.NoError(t, cache.Bump(ctx, key))

	second, err := cache.BuildKey(ctx, key, "sales", "2026-01-01", "2026-01-31")
	require.NoError(t, err)
	require.Equal(t, "reports:9876543210:sales:2026-01-01:2026-01-31:2", second)
}

func TestBumpIsScopedToOneTenant(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Bump(ctx, tenant.Key("1112223333")))

	other, err := cache.BuildKey(ctx, tenant.Key("4445556666"), "tax", "-", "-")
	require.NoError(t, err)
	require.Equal(t, "reports:4445556666:tax:-:-:1", other)
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return TaxReport{TaxCollected: 18, TaxPaid: 5, NetLiability: 13}, nil
	}

	var first, second TaxReport
	require.NoError(t, cache.FetchJSON(ctx, "reports:test:tax", &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, "reports:test:tax", &second, loader))
	require.Equal(t, 1, calls)
	require.Equal(t, first, second)
	require.Equal(t, 13.0, second.NetLiability)
}

func TestNilCacheFallsThroughToLoader(t *testing.T) {
	var cache *Cache
	var out TaxReport
	err := cache.FetchJSON(context.Background(), "any", &out, func(context.Context) (interface{}, error) {
		return TaxReport{TaxCollected: 1}, nil
	})
	require.NoError(t, err)
	require.Equal(t, 1.0, out.TaxCollected)
}
