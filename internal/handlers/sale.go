// internal/handlers/sale.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// SaleHandler serves /sells. Reads are scoped to the caller.
type SaleHandler struct {
	service ports.SaleService
	logger  *slog.Logger
}

func NewSaleHandler(service ports.SaleService, logger *slog.Logger) *SaleHandler {
	return &SaleHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "sale")),
	}
}

// CreateSale handles POST /api/v1/sells
func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req CreateSaleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	sale, err := h.service.Create(r.Context(), req.ToDomain(id.ID))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "sale recorded",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("medicine_id", sale.MedicineID),
		slog.String("total_price", sale.TotalPrice.StringFixed(2)))
	respondJSON(w, http.StatusCreated, sale)
}

// ListSales handles GET /api/v1/sells. Admins may pass user_id.
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var filter domain.SaleFilter
	if filter.StartDate, filter.EndDate, err = dateRange(r); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if filter.MedicineID, err = queryInt64(r, "medicine_id"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if filter.UserID, err = queryInt64(r, "user_id"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	sales, err := h.service.List(r.Context(), id, filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sales)
}

// GetSale handles GET /api/v1/sells/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	saleID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	sale, err := h.service.Get(r.Context(), id, saleID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}
