package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func newCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis_a.NewCache(client, 5*time.Minute, helpers.TestLogger()), mr
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newCache(t)

	summary := domain.BatchSummary{
		BatchID:        1,
		TotalPurchases: 2,
		TotalQuantity:  103,
		TotalCost:      decimal.RequireFromString("500.30"),
	}

	require.NoError(t, cache.Set(ctx, "batch-summary:1", summary))

	var got domain.BatchSummary
	require.NoError(t, cache.Get(ctx, "batch-summary:1", &got))
	assert.Equal(t, summary.TotalQuantity, got.TotalQuantity)
	assert.True(t, summary.TotalCost.Equal(got.TotalCost))
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newCache(t)

	var dest string
	err := cache.Get(context.Background(), "missing", &dest)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_SetWithTTL(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	require.NoError(t, cache.SetWithTTL(ctx, "revoked-token:abc", true, time.Minute))
	assert.True(t, mr.Exists("revoked-token:abc"))

	mr.FastForward(2 * time.Minute)

	ok, err := cache.Exists(ctx, "revoked-token:abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	for _, key := range []string{"batch-summary:1", "batch-summary:2", "stock:1"} {
		require.NoError(t, cache.Set(ctx, key, 1))
	}

	require.NoError(t, cache.DeletePattern(ctx, "batch-summary:*"))

	assert.False(t, mr.Exists("batch-summary:1"))
	assert.False(t, mr.Exists("batch-summary:2"))
	assert.True(t, mr.Exists("stock:1"))
}

func TestCache_GetOrSet(t *testing.T) {
	ctx := context.Background()
	cache, _ := newCache(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"quantity": 70}, nil
	}

	for i := 0; i < 2; i++ {
		var dest map[string]int
		require.NoError(t, cache.GetOrSet(ctx, "stock:1", &dest, fetch, time.Minute))
		assert.Equal(t, 70, dest["quantity"])
	}
	assert.Equal(t, 1, calls)
}

func TestCache_GetOrSet_FetchError(t *testing.T) {
	cache, mr := newCache(t)

	notFound := domain.NewNotFound("batch", 9)
	var dest domain.BatchSummary
	err := cache.GetOrSet(context.Background(), "batch-summary:9", &dest, func() (interface{}, error) {
		return nil, notFound
	}, time.Minute)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, mr.Exists("batch-summary:9"))
}

func TestCache_Ping(t *testing.T) {
	cache, mr := newCache(t)
	require.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "batch-summary:7", ports.BuildKey(ports.PrefixBatchSummary, "7"))
	assert.Equal(t, "import-job", ports.BuildKey(ports.PrefixImportJob))
}
