// internal/handlers/batch.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// BatchHandler serves /batches.
type BatchHandler struct {
	service ports.BatchService
	logger  *slog.Logger
}

func NewBatchHandler(service ports.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "batch")),
	}
}

// CreateBatch handles POST /api/v1/batches
func (h *BatchHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req CreateBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	batch, err := h.service.Create(r.Context(), req.Note, req.PurchaseDate)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "batch created", slog.Int64("batch_id", batch.ID))
	respondJSON(w, http.StatusCreated, batch)
}

// ListBatches handles GET /api/v1/batches
func (h *BatchHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	start, end, err := dateRange(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	batches, err := h.service.List(r.Context(), start, end)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// GetBatch handles GET /api/v1/batches/{id}
func (h *BatchHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	batch, err := h.service.Get(r.Context(), batchID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

// UpdateBatch handles PATCH /api/v1/batches/{id}
func (h *BatchHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req UpdateBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	batch, err := h.service.UpdateNote(r.Context(), batchID, req.Note)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

// DeleteBatch handles DELETE /api/v1/batches/{id}
func (h *BatchHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), batchID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "batch deleted", slog.Int64("batch_id", batchID))
	w.WriteHeader(http.StatusNoContent)
}

// BatchSummary handles GET /api/v1/batches/{id}/summary
func (h *BatchHandler) BatchSummary(w http.ResponseWriter, r *http.Request) {
	batchID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), batchID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
