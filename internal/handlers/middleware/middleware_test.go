// internal/handlers/middleware/middleware_test.go
package middleware_test

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/handlers/middleware"
	"github.com/ammerola/pharmacy-be/internal/pkg/logger"
	"github.com/ammerola/pharmacy-be/test/helpers"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

func TestRequestID(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(logger.ContextKeyRequestID).(string)
		assert.NotEmpty(t, requestID)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.RequestID("X-Request-ID")(handler)

	tests := []struct {
		name              string
		existingRequestID string
		validateResponse  func(*testing.T, *http.Response)
	}{
		{
			name: "generates_new_request_id",
			validateResponse: func(t *testing.T, resp *http.Response) {
				assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
			},
		},
		{
			name:              "uses_existing_request_id",
			existingRequestID: "existing-id-123",
			validateResponse: func(t *testing.T, resp *http.Response) {
				assert.Equal(t, "existing-id-123", resp.Header.Get("X-Request-ID"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.existingRequestID != "" {
				req.Header.Set("X-Request-ID", tt.existingRequestID)
			}
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)
			tt.validateResponse(t, w.Result())
		})
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "recovers_from_panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("test panic")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "internal server error",
		},
		{
			name: "passes_through_normal_response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("normal response"))
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "normal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := middleware.Recovery(helpers.TestLogger())(tt.handler)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "valid_token_sets_identity",
			header: "Bearer good",
			setupMocks: func(m *mocks.MockAuthService) {
				m.EXPECT().Authenticate(gomock.Any(), "good").
					Return(domain.Identity{ID: 7, Role: domain.RolePharmacist}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "7",
		},
		{
			name:           "missing_header",
			setupMocks:     func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "missing bearer token",
		},
		{
			name:           "basic_scheme_is_rejected",
			header:         "Basic dXNlcjpwYXNz",
			setupMocks:     func(m *mocks.MockAuthService) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired_token",
			header: "bearer old",
			setupMocks: func(m *mocks.MockAuthService) {
				m.EXPECT().Authenticate(gomock.Any(), "old").
					Return(domain.Identity{}, domain.Unauthorized("token expired"))
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "token expired",
		},
		{
			name:   "revocation_store_down",
			header: "Bearer good",
			setupMocks: func(m *mocks.MockAuthService) {
				m.EXPECT().Authenticate(gomock.Any(), "good").
					Return(domain.Identity{}, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := mocks.NewMockAuthService(gomock.NewController(t))
			tt.setupMocks(auth)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := middleware.IdentityFrom(r.Context())
				require.True(t, ok)
				assert.Equal(t, id.ID, r.Context().Value(logger.ContextKeyUserID))
				w.Write([]byte("7"))
			})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/stock", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			middleware.Authenticate(auth)(next).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := middleware.RequireRole(domain.RoleAdmin)(next)

	tests := []struct {
		name           string
		identity       *domain.Identity
		expectedStatus int
	}{
		{name: "admin_passes", identity: &domain.Identity{ID: 1, Role: domain.RoleAdmin}, expectedStatus: http.StatusNoContent},
		{name: "pharmacist_forbidden", identity: &domain.Identity{ID: 2, Role: domain.RolePharmacist}, expectedStatus: http.StatusForbidden},
		{name: "anonymous_unauthorized", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/catalog/units/1", nil)
			if tt.identity != nil {
				req = req.WithContext(middleware.WithIdentity(req.Context(), *tt.identity))
			}
			w := httptest.NewRecorder()

			guarded.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.RateLimit(3, time.Minute)(handler)

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)

	// Another client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := middleware.CORS([]string{"https://pharmacy.example.com"})(handler)

	tests := []struct {
		name           string
		method         string
		origin         string
		expectedStatus int
		expectAllowed  bool
	}{
		{name: "allowed_origin", method: http.MethodGet, origin: "https://pharmacy.example.com", expectedStatus: 200, expectAllowed: true},
		{name: "unknown_origin", method: http.MethodGet, origin: "https://evil.example.com", expectedStatus: 200},
		{name: "preflight", method: http.MethodOptions, origin: "https://pharmacy.example.com", expectedStatus: 204, expectAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/test", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectAllowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestSecureHeadersAndCompression(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	})
	wrapped := middleware.SecureHeaders(middleware.Compression(handler))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}
