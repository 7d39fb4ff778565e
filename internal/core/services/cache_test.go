// internal/core/services/cache_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func newRedisCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redis_a.NewCache(client, time.Minute, helpers.TestLogger()), mr
}

func TestStockService_Get_CachesSettledRows(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	m := newMockStore(t)
	m.stock.EXPECT().Get(gomock.Any(), int64(7)).
		Return(&domain.StockEntry{MedicineID: 7, Quantity: 12}, nil).
		Times(1)

	svc := services.NewStockService(m.store, cache, time.Minute, helpers.TestLogger())
	for range 2 {
		entry, err := svc.Get(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(12), entry.Quantity)
	}
	assert.True(t, mr.Exists("stock:7"))
}

func TestStockService_Get_SkipsCacheAfterConcurrentWrite(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	m := newMockStore(t)
	svc := services.NewStockService(m.store, cache, time.Minute, helpers.TestLogger())

	// The adjustment commits and invalidates between the reader's database
	// read and its cache write.
	m.medicines.EXPECT().GetByID(gomock.Any(), int64(7)).Return(helpers.CreateTestMedicine(), nil)
	m.expectLedger(7, 12, 13)
	gomock.InOrder(
		m.stock.EXPECT().Get(gomock.Any(), int64(7)).
			DoAndReturn(func(ctx context.Context, id int64) (*domain.StockEntry, error) {
				_, err := svc.Adjust(ctx, 7, 1)
				require.NoError(t, err)
				return &domain.StockEntry{MedicineID: 7, Quantity: 12}, nil
			}),
		m.stock.EXPECT().Get(gomock.Any(), int64(7)).
			Return(&domain.StockEntry{MedicineID: 7, Quantity: 13}, nil).
			Times(2),
	)

	entry, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(12), entry.Quantity)
	assert.False(t, mr.Exists("stock:7"), "row read before the write must not be cached")
	assert.True(t, mr.Exists("stock-hold:7"))

	entry, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(13), entry.Quantity)
	assert.False(t, mr.Exists("stock:7"))

	mr.FastForward(time.Minute)

	entry, err = svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(13), entry.Quantity)
	assert.True(t, mr.Exists("stock:7"))
}

func TestCatalogService_Update_DropsBatchSummaries(t *testing.T) {
	ctx := context.Background()
	cache, mr := newRedisCache(t)
	require.NoError(t, mr.Set("batch-summary:1", "{}"))
	require.NoError(t, mr.Set("batch-summary:2", "{}"))
	require.NoError(t, mr.Set("dashboard:5", "{}"))

	m := newMockStore(t)
	m.catalog.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	svc := services.NewCatalogService(m.store, cache, helpers.TestLogger())
	err := svc.Update(ctx, &domain.CatalogEntry{ID: 4, Kind: domain.CatalogManufacturer, Name: "Acme Labs"})

	require.NoError(t, err)
	assert.False(t, mr.Exists("batch-summary:1"))
	assert.False(t, mr.Exists("batch-summary:2"))
	assert.True(t, mr.Exists("dashboard:5"))
}
