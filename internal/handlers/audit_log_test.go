// internal/handlers/audit_log_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestAuditLogHandler_CreateAuditLog(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockAuditService)
		expectedStatus int
	}{
		{
			name: "records_for_caller",
			body: `{"action":"stock.export","details":"monthly report"}`,
			setupMocks: func(m *mocks.MockAuditService) {
				m.EXPECT().Record(gomock.Any(), pharmacist.ID, "stock.export", "monthly report").
					Return(&domain.AuditLog{ID: 5, Action: "stock.export"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing_action",
			body:           `{"details":"x"}`,
			setupMocks:     func(m *mocks.MockAuditService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := mocks.NewMockAuditService(gomock.NewController(t))
			tt.setupMocks(svc)
			handler := handlers.NewAuditLogHandler(svc, helpers.TestLogger())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/audit-logs", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.CreateAuditLog(w, asCaller(req, pharmacist))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestAuditLogHandler_CreateAuditLog_RequiresCaller(t *testing.T) {
	svc := mocks.NewMockAuditService(gomock.NewController(t))
	handler := handlers.NewAuditLogHandler(svc, helpers.TestLogger())

	w := httptest.NewRecorder()
	handler.CreateAuditLog(w, httptest.NewRequest(http.MethodPost, "/api/v1/audit-logs", bytes.NewBufferString(`{"action":"x"}`)))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuditLogHandler_ListAuditLogs(t *testing.T) {
	svc := mocks.NewMockAuditService(gomock.NewController(t))
	handler := handlers.NewAuditLogHandler(svc, helpers.TestLogger())
	svc.EXPECT().List(gomock.Any(), pharmacist, gomock.Any()).
		DoAndReturn(func(ctx context.Context, caller domain.Identity, f domain.AuditLogFilter) (*domain.AuditLogPage, error) {
			assert.Equal(t, int64(0), f.UserID)
			assert.Equal(t, 2, f.Page)
			assert.Equal(t, 5, f.Limit)
			return domain.NewPage([]domain.AuditLog{{ID: 9}}, f.Page, f.Limit, 6), nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs?page=2&limit=5", nil)
	w := httptest.NewRecorder()
	handler.ListAuditLogs(w, asCaller(req, pharmacist))

	require.Equal(t, http.StatusOK, w.Code)
	var page domain.AuditLogPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.TotalPages)
	assert.Len(t, page.Items, 1)
}

func TestAuditLogHandler_ListUserAuditLogs(t *testing.T) {
	svc := mocks.NewMockAuditService(gomock.NewController(t))
	handler := handlers.NewAuditLogHandler(svc, helpers.TestLogger())
	svc.EXPECT().List(gomock.Any(), adminCaller, gomock.Any()).
		DoAndReturn(func(ctx context.Context, caller domain.Identity, f domain.AuditLogFilter) (*domain.AuditLogPage, error) {
			assert.Equal(t, int64(42), f.UserID)
			return domain.NewPage[domain.AuditLog](nil, 1, 20, 0), nil
		})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit-logs/user/42", nil)
	req.SetPathValue("userId", "42")
	w := httptest.NewRecorder()
	handler.ListUserAuditLogs(w, asCaller(req, adminCaller))

	assert.Equal(t, http.StatusOK, w.Code)
}
