// internal/handlers/purchase.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// PurchaseHandler handles purchase-related HTTP requests
type PurchaseHandler struct {
	service ports.PurchaseService
	logger  *slog.Logger
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(service ports.PurchaseService, logger *slog.Logger) *PurchaseHandler {
	return &PurchaseHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "purchase")),
	}
}

// CreatePurchase handles POST /api/v1/purchases
func (h *PurchaseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req CreatePurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	purchase, err := h.service.Create(ctx, req.ToDomain(id.ID))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "purchase created",
		slog.Int64("purchase_id", purchase.ID),
		slog.Int64("medicine_id", purchase.MedicineID),
		slog.Int64("quantity", purchase.Quantity))

	respondJSON(w, http.StatusCreated, purchase)
}

// ListPurchases handles GET /api/v1/purchases
func (h *PurchaseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parseFilter(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	purchases, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

// GetPurchase handles GET /api/v1/purchases/{id}
func (h *PurchaseHandler) GetPurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	purchase, err := h.service.Get(r.Context(), purchaseID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

// UpdatePurchase handles PUT /api/v1/purchases/{id}
func (h *PurchaseHandler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req UpdatePurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	purchase, err := h.service.Update(r.Context(), purchaseID, req.ToDomain())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "purchase updated", slog.Int64("purchase_id", purchaseID))
	respondJSON(w, http.StatusOK, purchase)
}

// DeletePurchase handles DELETE /api/v1/purchases/{id}
func (h *PurchaseHandler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	purchaseID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), purchaseID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "purchase deleted", slog.Int64("purchase_id", purchaseID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PurchaseHandler) parseFilter(r *http.Request) (domain.PurchaseFilter, error) {
	var (
		f   domain.PurchaseFilter
		err error
	)
	if f.StartDate, f.EndDate, err = dateRange(r); err != nil {
		return f, err
	}
	if f.MedicineID, err = queryInt64(r, "medicine_id"); err != nil {
		return f, err
	}
	if f.BatchID, err = queryInt64(r, "batch_id"); err != nil {
		return f, err
	}
	return f, nil
}
