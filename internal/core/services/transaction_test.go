// internal/core/services/transaction_test.go
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

func TestTransactionService_Record(t *testing.T) {
	tests := []struct {
		name          string
		typ           domain.TransactionType
		amount        string
		setupMocks    func(*testing.T, *mockStore)
		expectedRef   string
		expectedError error
	}{
		{
			name:   "expense_is_numbered",
			typ:    "expense",
			amount: "45.10",
			setupMocks: func(t *testing.T, m *mockStore) {
				m.expectTransaction(t, domain.TransactionExpense, 3, func(tx *domain.Transaction) {
					assert.Equal(t, "rent", tx.Note)
				})
			},
			expectedRef: "EXPENSE-3",
		},
		{
			name:   "finance_is_numbered",
			typ:    domain.TransactionFinance,
			amount: "1000",
			setupMocks: func(t *testing.T, m *mockStore) {
				m.expectTransaction(t, domain.TransactionFinance, 1, nil)
			},
			expectedRef: "FINANCE-1",
		},
		{
			name:          "sale_is_automatic_only",
			typ:           domain.TransactionSale,
			amount:        "1",
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "zero_amount",
			typ:           domain.TransactionExpense,
			amount:        "0",
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
		{
			name:          "unknown_type",
			typ:           "REFUND",
			amount:        "1",
			setupMocks:    func(t *testing.T, m *mockStore) {},
			expectedError: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMockStore(t)
			tt.setupMocks(t, m)

			svc := services.NewTransactionService(m.store, helpers.TestLogger())
			record, err := svc.Record(context.Background(), tt.typ, decimal.RequireFromString(tt.amount), " rent ")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedRef, record.ReferenceNumber)
		})
	}
}

func TestTransactionService_List_Paginates(t *testing.T) {
	m := newMockStore(t)
	m.transactions.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, int64, error) {
			assert.Equal(t, 1, f.Page)
			assert.Equal(t, 20, f.Limit)
			assert.Equal(t, domain.TransactionSale, f.Type)
			return []domain.Transaction{{ID: 1}}, 41, nil
		})

	svc := services.NewTransactionService(m.store, helpers.TestLogger())
	page, err := svc.List(context.Background(), domain.TransactionFilter{Type: "sale", Limit: 500})

	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(41), page.Total)
}

func TestTransactionService_List_FiltersBySale(t *testing.T) {
	m := newMockStore(t)
	m.transactions.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, int64, error) {
			assert.Equal(t, int64(12), f.SaleID)
			return []domain.Transaction{{ID: 3}}, 1, nil
		})

	svc := services.NewTransactionService(m.store, helpers.TestLogger())
	page, err := svc.List(context.Background(), domain.TransactionFilter{SaleID: 12})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = svc.List(context.Background(), domain.TransactionFilter{SaleID: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
