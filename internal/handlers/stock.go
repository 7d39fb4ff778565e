// internal/handlers/stock.go
package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// StockHandler serves the stock ledger.
type StockHandler struct {
	service ports.StockService
	sheets  ports.Spreadsheet
	logger  *slog.Logger
}

func NewStockHandler(service ports.StockService, sheets ports.Spreadsheet, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		sheets:  sheets,
		logger:  logger.With(slog.String("handler", "stock")),
	}
}

// ListStock handles GET /api/v1/stock
func (h *StockHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// GetStock handles GET /api/v1/stock/medicine/{id}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry, err := h.service.Get(r.Context(), medicineID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// AdjustStock handles PATCH /api/v1/stock/medicine/{id}/adjust
func (h *StockHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req AdjustStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry, err := h.service.Adjust(r.Context(), medicineID, req.Delta)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "stock adjusted",
		slog.Int64("medicine_id", medicineID),
		slog.Int64("delta", req.Delta),
		slog.Int64("quantity", entry.Quantity))
	respondJSON(w, http.StatusOK, entry)
}

// SetStock handles PUT /api/v1/stock/medicine/{id}
func (h *StockHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req SetStockRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry, err := h.service.SetAbsolute(r.Context(), medicineID, *req.Quantity, req.Price())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// ExportStock handles GET /api/v1/stock/export and streams an xlsx report.
func (h *StockHandler) ExportStock(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	data, err := h.sheets.StockReport(entries)
	if err != nil {
		respondError(w, r, h.logger, fmt.Errorf("failed to build stock report: %w", err))
		return
	}

	h.logger.InfoContext(r.Context(), "stock exported", slog.Int("rows", len(entries)))
	respondFile(w, fmt.Sprintf("stock_%s.xlsx", time.Now().Format("20060102_150405")), data)
}
