// internal/handlers/import_test.go
package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
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

type importMocks struct {
	importer *mocks.MockImportService
	jobs     *mocks.MockImportJobService
	sheets   *mocks.MockSpreadsheet
}

func multipartUpload(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportHandler_Import(t *testing.T) {
	tests := []struct {
		name           string
		kind           string
		query          string
		filename       string
		content        []byte
		maxSize        int64
		setupMocks     func(*importMocks)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "synchronous_report",
			kind:     "medicines",
			filename: "medicines.xlsx",
			content:  []byte("xlsx-bytes"),
			setupMocks: func(m *importMocks) {
				m.importer.EXPECT().Run(gomock.Any(), domain.ImportMedicines, int64(42), []byte("xlsx-bytes")).
					Return(&domain.ImportReport{SuccessCount: 2, ErrorCount: 1,
						Errors: []domain.RowError{{Row: 3, Message: "sell_price must be a number"}}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"row":3`,
		},
		{
			name:     "async_returns_job",
			kind:     "stock",
			query:    "?async=true",
			filename: "stock.xlsx",
			content:  []byte("xlsx-bytes"),
			setupMocks: func(m *importMocks) {
				m.jobs.EXPECT().Enqueue(gomock.Any(), domain.ImportStock, int64(42), "stock.xlsx", gomock.Any()).
					DoAndReturn(func(ctx context.Context, kind domain.ImportKind, userID int64, name string, r io.Reader) (*domain.ImportJob, error) {
						data, err := io.ReadAll(r)
						require.NoError(t, err)
						assert.Equal(t, "xlsx-bytes", string(data))
						return &domain.ImportJob{ID: "job-1", Kind: kind, Status: domain.ImportJobQueued}, nil
					})
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `"job_id":"job-1"`,
		},
		{
			name:           "missing_file",
			kind:           "stock",
			setupMocks:     func(m *importMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrong_extension",
			kind:           "stock",
			filename:       "stock.csv",
			content:        []byte("a,b"),
			setupMocks:     func(m *importMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "too_large",
			kind:           "stock",
			filename:       "stock.xlsx",
			content:        bytes.Repeat([]byte("x"), 2<<20),
			maxSize:        1 << 20,
			setupMocks:     func(m *importMocks) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:           "unknown_kind",
			kind:           "suppliers",
			filename:       "s.xlsx",
			setupMocks:     func(m *importMocks) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "unreadable_workbook",
			kind:     "stock",
			filename: "stock.xlsx",
			content:  []byte("garbage"),
			setupMocks: func(m *importMocks) {
				m.importer.EXPECT().Run(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, domain.NewValidation("file", "not a valid xlsx workbook"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := &importMocks{
				importer: mocks.NewMockImportService(ctrl),
				jobs:     mocks.NewMockImportJobService(ctrl),
				sheets:   mocks.NewMockSpreadsheet(ctrl),
			}
			tt.setupMocks(m)
			handler := handlers.NewImportHandler(m.importer, m.jobs, m.sheets, helpers.TestLogger(), tt.maxSize)

			req := multipartUpload(t, "/api/v1/imports/"+tt.kind+tt.query, tt.filename, tt.content)
			req.SetPathValue("kind", tt.kind)
			req = asCaller(req, pharmacist)
			w := httptest.NewRecorder()

			handler.Import(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestImportHandler_StatusAndTemplate(t *testing.T) {
	ctrl := gomock.NewController(t)
	jobs := mocks.NewMockImportJobService(ctrl)
	sheets := mocks.NewMockSpreadsheet(ctrl)
	handler := handlers.NewImportHandler(mocks.NewMockImportService(ctrl), jobs, sheets, helpers.TestLogger(), 0)

	jobs.EXPECT().Status(gomock.Any(), "job-1").
		Return(&domain.ImportJob{ID: "job-1", Status: domain.ImportJobCompleted, Report: &domain.ImportReport{SuccessCount: 4}}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/imports/job-1", nil)
	req.SetPathValue("jobId", "job-1")
	w := httptest.NewRecorder()
	handler.ImportStatus(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success_count":4`)

	sheets.EXPECT().Template(domain.ImportStock).Return([]byte("template"), nil)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/imports/templates/stock", nil)
	req.SetPathValue("kind", "stock")
	w = httptest.NewRecorder()
	handler.Template(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="stock_template.xlsx"`, w.Header().Get("Content-Disposition"))
}
