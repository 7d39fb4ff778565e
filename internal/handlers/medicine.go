// internal/handlers/medicine.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// MedicineHandler serves the medicine registry.
type MedicineHandler struct {
	service ports.MedicineService
	logger  *slog.Logger
}

func NewMedicineHandler(service ports.MedicineService, logger *slog.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "medicine")),
	}
}

// CreateMedicine handles POST /api/v1/medicines
func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req MedicineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	med, err := h.service.Create(r.Context(), req.ToDomain())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "medicine created",
		slog.Int64("medicine_id", med.ID),
		slog.String("name", med.Name))
	respondJSON(w, http.StatusCreated, med)
}

// ListMedicines handles GET /api/v1/medicines?search=&limit=&offset=
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	meds, err := h.service.List(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, meds)
}

// GetMedicine handles GET /api/v1/medicines/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	med, err := h.service.Get(r.Context(), medicineID)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

// UpdateMedicine handles PUT /api/v1/medicines/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req MedicineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	med, err := h.service.Update(r.Context(), medicineID, req.ToDomain())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, med)
}

// DeleteMedicine handles DELETE /api/v1/medicines/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	medicineID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), medicineID); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "medicine deleted", slog.Int64("medicine_id", medicineID))
	w.WriteHeader(http.StatusNoContent)
}
