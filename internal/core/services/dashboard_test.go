// internal/core/services/dashboard_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/ammerola/pharmacy-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func expectDashboardLoad(m *mockStore, threshold int64) {
	m.dashboard.EXPECT().
		Summary(gomock.Any(), gomock.Cond(func(since time.Time) bool {
			return since.Equal(domain.StartOfDay(time.Now()))
		}), threshold).
		Return(&domain.DashboardSummary{
			MedicineCount: 3,
			UnitsInStock:  42,
			StockValue:    decimal.RequireFromString("105.00"),
			LowStock:      1,
		}, nil)
	m.dashboard.EXPECT().Categories(gomock.Any()).
		Return([]domain.CategoryBreakdown{{Category: "Analgesic", MedicineCount: 2, Units: 40}}, nil)
	m.dashboard.EXPECT().LowStock(gomock.Any(), threshold, 20).
		Return([]domain.LowStockItem{{MedicineID: 3, MedicineName: "Insulin", Quantity: 2}}, nil)
	m.transactions.EXPECT().
		List(gomock.Any(), domain.TransactionFilter{Page: 1, Limit: 10}).
		Return([]domain.Transaction{{ID: 1, ReferenceNumber: "SALE-1"}}, int64(1), nil)
}

func TestDashboardService_Get(t *testing.T) {
	tests := []struct {
		name              string
		threshold         int64
		expectedThreshold int64
		expectedError     error
	}{
		{
			name:              "default_threshold",
			threshold:         0,
			expectedThreshold: domain.DefaultLowStockThreshold,
		},
		{
			name:              "custom_threshold",
			threshold:         5,
			expectedThreshold: 5,
		},
		{
			name:          "negative_threshold",
			threshold:     -1,
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rds := helpers.SetupTestRedis(t)
			cache := redis_a.NewCache(rds.Client, time.Minute, helpers.TestLogger())

			m := newMockStore(t)
			if tt.expectedError == nil {
				expectDashboardLoad(m, tt.expectedThreshold)
			}

			svc := services.NewDashboardService(m.store, cache, time.Minute, helpers.TestLogger())
			d, err := svc.Get(context.Background(), tt.threshold)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedThreshold, d.Threshold)
			assert.Equal(t, int64(42), d.Summary.UnitsInStock)
			assert.True(t, d.Summary.StockValue.Equal(decimal.RequireFromString("105")))
			assert.Len(t, d.Categories, 1)
			assert.Equal(t, "Insulin", d.LowStock[0].MedicineName)
			assert.Equal(t, "SALE-1", d.RecentTransactions[0].ReferenceNumber)
		})
	}
}

func TestDashboardService_Get_IsCached(t *testing.T) {
	rds := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(rds.Client, time.Minute, helpers.TestLogger())

	// Expectations are registered once; a second load would fail the test.
	m := newMockStore(t)
	expectDashboardLoad(m, 10)

	svc := services.NewDashboardService(m.store, cache, time.Minute, helpers.TestLogger())
	for i := 0; i < 2; i++ {
		d, err := svc.Get(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), d.Summary.MedicineCount)
	}
	assert.True(t, rds.Server.Exists("dashboard:10"))
}

func TestDashboardService_Get_RepositoryError(t *testing.T) {
	rds := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(rds.Client, time.Minute, helpers.TestLogger())

	boom := errors.New("connection reset")
	m := newMockStore(t)
	m.dashboard.EXPECT().Summary(gomock.Any(), gomock.Any(), int64(10)).Return(nil, boom)
	m.dashboard.EXPECT().Categories(gomock.Any()).Return(nil, nil).AnyTimes()
	m.dashboard.EXPECT().LowStock(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	m.transactions.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), nil).AnyTimes()

	svc := services.NewDashboardService(m.store, cache, time.Minute, helpers.TestLogger())
	_, err := svc.Get(context.Background(), 0)

	assert.ErrorIs(t, err, boom)
	assert.False(t, rds.Server.Exists("dashboard:10"))
}
