// internal/handlers/health_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/handlers"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name           string
		dbErr          error
		cacheErr       error
		expectedStatus int
		expectedHealth string
	}{
		{name: "all_healthy", expectedStatus: http.StatusOK, expectedHealth: "healthy"},
		{name: "database_down", dbErr: errors.New("dial tcp: refused"), expectedStatus: http.StatusServiceUnavailable, expectedHealth: "degraded"},
		{name: "redis_down", cacheErr: errors.New("redis: closed"), expectedStatus: http.StatusServiceUnavailable, expectedHealth: "degraded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			db := mocks.NewMockDatabase(ctrl)
			cache := mocks.NewMockCacheRepository(ctrl)

			db.EXPECT().Ping(gomock.Any()).Return(tt.dbErr)
			if tt.dbErr == nil {
				db.EXPECT().Health(gomock.Any()).Return(map[string]interface{}{"total_conns": 4})
			}
			cache.EXPECT().Ping(gomock.Any()).Return(tt.cacheErr)

			handler := handlers.NewHealthHandler(db, cache, nil, "1.0.0", "test", helpers.TestLogger())
			w := httptest.NewRecorder()
			handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			var status handlers.HealthStatus
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.expectedHealth, status.Status)
			assert.Equal(t, "1.0.0", status.Version)
			assert.Len(t, status.Services, 2)
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ctrl := gomock.NewController(t)
	db := mocks.NewMockDatabase(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	handler := handlers.NewHealthHandler(db, cache, nil, "1.0.0", "test", helpers.TestLogger())

	db.EXPECT().Ping(gomock.Any()).Return(nil)
	cache.EXPECT().Ping(gomock.Any()).Return(nil)
	w := httptest.NewRecorder()
	handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ready":true}`, w.Body.String())

	db.EXPECT().Ping(gomock.Any()).Return(errors.New("refused"))
	cache.EXPECT().Ping(gomock.Any()).Return(nil).AnyTimes()
	w = httptest.NewRecorder()
	handler.Readiness(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
