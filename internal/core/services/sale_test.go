// internal/core/services/sale_test.go
package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/services"
	"github.com/ammerola/pharmacy-be/test/helpers"
)

func TestSaleService_Create(t *testing.T) {
	override := decimal.RequireFromString("9.99")

	tests := []struct {
		name          string
		input         domain.SaleInput
		setupMocks    func(*testing.T, *mockStore)
		expectedTotal string
		expectedError error
	}{
		{
			name:  "computes_total_from_sell_price",
			input: domain.SaleInput{MedicineID: 1, UserID: 3, Quantity: 4},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.medicines.EXPECT().GetByID(gomock.Any(), int64(1)).Return(helpers.CreateTestMedicine(), nil)
				m.expectLedger(1, 10, 6)
				m.sales.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, s *domain.Sale) error {
						s.ID = 21
						return nil
					})
				m.expectTransaction(t, domain.TransactionSale, 5, func(tx *domain.Transaction) {
					assert.Equal(t, "SALE-5", tx.ReferenceNumber)
					assert.Equal(t, "10", tx.Amount.String())
					require.NotNil(t, tx.SaleID)
					assert.Equal(t, int64(21), *tx.SaleID)
					assert.Nil(t, tx.PurchaseID)
					assert.Equal(t, "Sale of Paracetamol x4", tx.Note)
				})
			},
			expectedTotal: "10",
		},
		{
			name:  "explicit_price_overrides_total",
			input: domain.SaleInput{MedicineID: 1, UserID: 3, Quantity: 2, Price: &override},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.medicines.EXPECT().GetByID(gomock.Any(), int64(1)).Return(helpers.CreateTestMedicine(), nil)
				m.expectLedger(1, 2, 0)
				m.sales.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
				m.expectTransaction(t, domain.TransactionSale, 1, func(tx *domain.Transaction) {
					assert.True(t, tx.Amount.Equal(override))
				})
			},
			expectedTotal: "9.99",
		},
		{
			name:  "insufficient_stock_writes_nothing",
			input: domain.SaleInput{MedicineID: 1, UserID: 3, Quantity: 11},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.medicines.EXPECT().GetByID(gomock.Any(), int64(1)).Return(helpers.CreateTestMedicine(), nil)
				m.stock.EXPECT().Lock(gomock.Any(), int64(1)).
					Return(&domain.StockEntry{MedicineID: 1, Quantity: 10}, nil)
			},
			expectedError: domain.ErrInsufficientStock,
		},
		{
			name:  "total_beyond_ledger_range_is_rejected",
			input: domain.SaleInput{MedicineID: 1, UserID: 3, Quantity: 1_000_000_000_000},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.medicines.EXPECT().GetByID(gomock.Any(), int64(1)).Return(helpers.CreateTestMedicine(), nil)
			},
			expectedError: domain.ErrValidation,
		},
		{
			name:  "unknown_medicine",
			input: domain.SaleInput{MedicineID: 8, UserID: 3, Quantity: 1},
			setupMocks: func(t *testing.T, m *mockStore) {
				m.medicines.EXPECT().GetByID(gomock.Any(), int64(8)).Return(nil, domain.NewNotFound("medicine", 8))
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name:          "zero_quantity",
			input:         domain.SaleInput{MedicineID: 1, UserID: 3},
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(t, m)

			svc := services.NewSaleService(m.store, m.cache, helpers.TestLogger())
			sale, err := svc.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedTotal, sale.TotalPrice.String())
			assert.Equal(t, tt.input.UserID, sale.UserID)
		})
	}
}

func TestSaleService_Get_ScopesToCaller(t *testing.T) {
	owned := &domain.Sale{ID: 4, UserID: 3, Quantity: 1}

	tests := []struct {
		name          string
		caller        domain.Identity
		expectedError error
	}{
		{name: "owner_sees_sale", caller: domain.Identity{ID: 3, Role: domain.RolePharmacist}},
		{name: "admin_sees_any_sale", caller: domain.Identity{ID: 1, Role: domain.RoleAdmin}},
		{
			name:          "other_user_gets_not_found",
			caller:        domain.Identity{ID: 5, Role: domain.RolePharmacist},
			expectedError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			m.sales.EXPECT().GetByID(gomock.Any(), int64(4)).Return(owned, nil)

			svc := services.NewSaleService(m.store, m.cache, helpers.TestLogger())
			sale, err := svc.Get(context.Background(), tt.caller, 4)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(4), sale.ID)
		})
	}
}

func TestSaleService_List_ForcesOwnerFilter(t *testing.T) {
	tests := []struct {
		name           string
		caller         domain.Identity
		filter         domain.SaleFilter
		expectedUserID int64
	}{
		{
			name:           "pharmacist_cannot_widen_filter",
			caller:         domain.Identity{ID: 3, Role: domain.RolePharmacist},
			filter:         domain.SaleFilter{UserID: 9},
			expectedUserID: 3,
		},
		{
			name:           "admin_filter_is_kept",
			caller:         domain.Identity{ID: 1, Role: domain.RoleAdmin},
			filter:         domain.SaleFilter{UserID: 9},
			expectedUserID: 9,
		},
		{
			name:           "admin_lists_everything",
			caller:         domain.Identity{ID: 1, Role: domain.RoleAdmin},
			expectedUserID: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			m.sales.EXPECT().
				List(gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, f domain.SaleFilter) ([]domain.Sale, error) {
					assert.Equal(t, tt.expectedUserID, f.UserID)
					return []domain.Sale{}, nil
				})

			svc := services.NewSaleService(m.store, m.cache, helpers.TestLogger())
			_, err := svc.List(context.Background(), tt.caller, tt.filter)
			require.NoError(t, err)
		})
	}
}
