package statements

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, hit := cache.Get(ctx, 7)
	require.False(t, hit)

	st := Statement{
		FiscalYear: FiscalYearMeta{ID: 7, Year: 2025},
		NetIncome:  NetIncomeLine{Label: "Jahresüberschuss", Amount: dec("1900")},
		Balanced:   true,
	}
	cache.Set(ctx, 7, st)

	got, hit := cache.Get(ctx, 7)
	require.True(t, hit)
	require.Equal(t, int64(7), got.FiscalYear.ID)
	require.True(t, got.NetIncome.Amount.Equal(dec("1900")))
	require.True(t, got.Balanced)
}

func TestCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, 7, Statement{FiscalYear: FiscalYearMeta{ID: 7}})
	cache.Invalidate(ctx, 7)

	_, hit := cache.Get(ctx, 7)
	require.False(t, hit)
}

func TestCacheEntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, 7, Statement{FiscalYear: FiscalYearMeta{ID: 7}})
	mr.FastForward(2 * time.Minute)

	_, hit := cache.Get(ctx, 7)
	require.False(t, hit)
}

func TestCacheCorruptPayloadIsMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	require.NoError(t, mr.Set(cacheKey(7), "{broken"))

	_, hit := cache.Get(context.Background(), 7)
	require.False(t, hit)
}

func TestNilCacheIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	_, hit := cache.Get(ctx, 7)
	require.False(t, hit)
	cache.Set(ctx, 7, Statement{})
	cache.Invalidate(ctx, 7)
}
