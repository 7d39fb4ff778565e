// internal/handlers/stock_test.go
package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestStockHandler_AdjustStock(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		body           string
		setupMocks     func(*mocks.MockStockService)
		expectedStatus int
	}{
		{
			name: "adds_stock",
			id:   "7",
			body: `{"delta":5}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().Adjust(gomock.Any(), int64(7), int64(5)).
					Return(&domain.StockEntry{MedicineID: 7, Quantity: 15}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "unknown_medicine",
			id:   "7",
			body: `{"delta":-1}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().Adjust(gomock.Any(), int64(7), int64(-1)).Return(nil, domain.NewNotFound("medicine", 7))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "negative_result",
			id:   "7",
			body: `{"delta":-50}`,
			setupMocks: func(m *mocks.MockStockService) {
				m.EXPECT().Adjust(gomock.Any(), int64(7), int64(-50)).
					Return(nil, &domain.InsufficientStockError{MedicineID: 7, Available: 10, Requested: 50})
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "zero_delta",
			id:             "7",
			body:           `{"delta":0}`,
			setupMocks:     func(m *mocks.MockStockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := mocks.NewMockStockService(ctrl)
			tt.setupMocks(svc)
			handler := handlers.NewStockHandler(svc, mocks.NewMockSpreadsheet(ctrl), helpers.TestLogger())

			req := httptest.NewRequest(http.MethodPatch, "/api/v1/stock/medicine/"+tt.id+"/adjust", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.AdjustStock(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestStockHandler_SetStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockStockService(ctrl)
	handler := handlers.NewStockHandler(svc, mocks.NewMockSpreadsheet(ctrl), helpers.TestLogger())

	svc.EXPECT().SetAbsolute(gomock.Any(), int64(7), int64(0), decimal.NewNullDecimal(decimal.RequireFromString("2.50"))).
		Return(&domain.StockEntry{MedicineID: 7}, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/stock/medicine/7", bytes.NewBufferString(`{"quantity":0,"price_per_unit":"2.50"}`))
	req.SetPathValue("id", "7")
	w := httptest.NewRecorder()
	handler.SetStock(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/v1/stock/medicine/7", bytes.NewBufferString(`{"quantity":-3}`))
	req.SetPathValue("id", "7")
	w = httptest.NewRecorder()
	handler.SetStock(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockHandler_ExportStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockStockService(ctrl)
	sheets := mocks.NewMockSpreadsheet(ctrl)
	handler := handlers.NewStockHandler(svc, sheets, helpers.TestLogger())

	entries := []domain.StockEntry{{MedicineID: 1, Quantity: 3}}
	svc.EXPECT().List(gomock.Any()).Return(entries, nil)
	sheets.EXPECT().StockReport(entries).Return([]byte("PK-xlsx"), nil)

	w := httptest.NewRecorder()
	handler.ExportStock(w, httptest.NewRequest(http.MethodGet, "/api/v1/stock/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "stock_")
	assert.Equal(t, "PK-xlsx", w.Body.String())
}
