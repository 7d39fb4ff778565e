// internal/handlers/transaction_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestTransactionHandler_RecordTransaction(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockTransactionService)
		expectedStatus int
	}{
		{
			name: "expense",
			body: `{"type":"expense","amount":"120.00","note":"rent"}`,
			setupMocks: func(m *mocks.MockTransactionService) {
				m.EXPECT().Record(gomock.Any(), domain.TransactionExpense, gomock.Any(), "rent").
					Return(&domain.Transaction{ReferenceNumber: "EXPENSE-1", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(120)}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "unknown_type",
			body:           `{"type":"refund","amount":1}`,
			setupMocks:     func(m *mocks.MockTransactionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing_amount",
			body:           `{"type":"FINANCE"}`,
			setupMocks:     func(m *mocks.MockTransactionService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockTransactionService(gomock.NewController(t))
			tt.setupMocks(svc)
			handler := handlers.NewTransactionHandler(svc, helpers.TestLogger())

			w := httptest.NewRecorder()
			handler.RecordTransaction(w, httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewBufferString(tt.body)))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTransactionHandler_ListTransactions(t *testing.T) {
	svc := mocks.NewMockTransactionService(gomock.NewController(t))
	handler := handlers.NewTransactionHandler(svc, helpers.TestLogger())

	svc.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f domain.TransactionFilter) (*domain.TransactionPage, error) {
			assert.Equal(t, domain.TransactionSale, f.Type)
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 10, f.Limit)
			return domain.NewTransactionPage(nil, f, 15), nil
		})

	w := httptest.NewRecorder()
	handler.ListTransactions(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions?type=sale&page=2&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var page domain.TransactionPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalPages)
	assert.Empty(t, page.Items)
}

func TestTransactionHandler_ListSaleTransactions(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		saleID         string
		expectedStatus int
	}{
		{name: "path_sale_id", target: "/api/v1/transactions/sale/12", saleID: "12", expectedStatus: http.StatusOK},
		{name: "bad_sale_id", target: "/api/v1/transactions/sale/abc", saleID: "abc", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockTransactionService(gomock.NewController(t))
			handler := handlers.NewTransactionHandler(svc, helpers.TestLogger())
			if tt.expectedStatus == http.StatusOK {
				svc.EXPECT().List(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, f domain.TransactionFilter) (*domain.TransactionPage, error) {
						assert.Equal(t, int64(12), f.SaleID)
						return domain.NewTransactionPage([]domain.Transaction{{ID: 1}}, f, 1), nil
					})
			}

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.SetPathValue("saleId", tt.saleID)
			w := httptest.NewRecorder()
			handler.ListSaleTransactions(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestTransactionHandler_ListTransactions_SaleQuery(t *testing.T) {
	svc := mocks.NewMockTransactionService(gomock.NewController(t))
	handler := handlers.NewTransactionHandler(svc, helpers.TestLogger())
	svc.EXPECT().List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, f domain.TransactionFilter) (*domain.TransactionPage, error) {
			assert.Equal(t, int64(7), f.SaleID)
			return domain.NewTransactionPage(nil, f, 0), nil
		})

	w := httptest.NewRecorder()
	handler.ListTransactions(w, httptest.NewRequest(http.MethodGet, "/api/v1/transactions?sale_id=7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
