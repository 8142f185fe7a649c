package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *ReportCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, time.Minute)
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "reports", "trial_balance", "1")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]string{"hello": "ledger"}, nil
	}

	var first map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, 1, calls)
	require.Equal(t, "ledger", first["hello"])

	var second map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, 1, calls, "second fetch must hit the cache")
	require.Equal(t, first, second)
}

func TestBumpChangesKeys(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "reports", "pl", "1", "2026")
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx))

	after, err := c.BuildKey(ctx, "reports", "pl", "1", "2026")
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	var c *ReportCache
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "reports", "x")
	require.NoError(t, err)
	require.Equal(t, "reports:x", key)

	var out []int
	require.NoError(t, c.FetchJSON(ctx, key, &out, func(context.Context) (interface{}, error) {
		return []int{1, 2, 3}, nil
	}))
	require.Equal(t, []int{1, 2, 3}, out)
	require.NoError(t, c.Bump(ctx))
}
