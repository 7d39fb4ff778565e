// internal/handlers/import.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// DefaultMaxUploadBytes is the spreadsheet upload limit.
const DefaultMaxUploadBytes = 5 << 20

// ImportHandler handles spreadsheet import operations
type ImportHandler struct {
	importer    ports.ImportService
	jobs        ports.ImportJobService
	sheets      ports.Spreadsheet
	logger      *slog.Logger
	maxFileSize int64
}

// NewImportHandler creates a new import handler. jobs may be nil, in which
// case ?async=true is rejected.
func NewImportHandler(
	importer ports.ImportService,
	jobs ports.ImportJobService,
	sheets ports.Spreadsheet,
	logger *slog.Logger,
	maxFileSize int64,
) *ImportHandler {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxUploadBytes
	}
	return &ImportHandler{
		importer:    importer,
		jobs:        jobs,
		sheets:      sheets,
		logger:      logger.With(slog.String("handler", "import")),
		maxFileSize: maxFileSize,
	}
}

// Import handles POST /api/v1/imports/{kind}. The file is read from the
// multipart field "file".
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	kind, err := domain.ParseImportKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	// Leave room for the multipart envelope.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+64<<10)
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respondJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error: fmt.Sprintf("file exceeds %d MB", h.maxFileSize>>20),
			})
			return
		}
		respondError(w, r, h.logger, domain.NewValidation("file", "failed to parse multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, h.logger, domain.NewValidation("file", "is required"))
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		respondJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: fmt.Sprintf("file exceeds %d MB", h.maxFileSize>>20),
		})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		respondError(w, r, h.logger, domain.NewValidation("file", "only .xlsx files are allowed"))
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		h.enqueue(w, r, kind, id.ID, header.Filename, file)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, r, h.logger, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	report, err := h.importer.Run(ctx, kind, id.ID, data)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "import completed",
		slog.String("kind", string(kind)),
		slog.String("filename", header.Filename),
		slog.Int("success_count", report.SuccessCount),
		slog.Int("error_count", report.ErrorCount))
	respondJSON(w, http.StatusOK, report)
}

func (h *ImportHandler) enqueue(w http.ResponseWriter, r *http.Request, kind domain.ImportKind, userID int64, filename string, file io.Reader) {
	if h.jobs == nil {
		respondError(w, r, h.logger, domain.NewValidation("async", "background imports are not enabled"))
		return
	}

	job, err := h.jobs.Enqueue(r.Context(), kind, userID, filename, file)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "import queued",
		slog.String("job_id", job.ID),
		slog.String("kind", string(kind)))
	w.Header().Set("Location", "/api/v1/imports/"+job.ID)
	respondJSON(w, http.StatusAccepted, job)
}

// ImportStatus handles GET /api/v1/imports/{jobId}
func (h *ImportHandler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondError(w, r, h.logger, domain.NewNotFound("import job", 0))
		return
	}

	job, err := h.jobs.Status(r.Context(), r.PathValue("jobId"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, job)
}

// Template handles GET /api/v1/imports/templates/{kind}
func (h *ImportHandler) Template(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseImportKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	data, err := h.sheets.Template(kind)
	if err != nil {
		respondError(w, r, h.logger, fmt.Errorf("failed to build %s template: %w", kind, err))
		return
	}
	respondFile(w, fmt.Sprintf("%s_template.xlsx", kind), data)
}
