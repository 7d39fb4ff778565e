// internal/handlers/catalog.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// CatalogHandler serves /catalog/{kind} for manufacturers, units,
// categories and suppliers.
type CatalogHandler struct {
	service ports.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(service ports.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "catalog")),
	}
}

// CreateEntry handles POST /api/v1/catalog/{kind}
func (h *CatalogHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req CatalogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry := req.ToDomain(kind)
	if err := h.service.Create(r.Context(), entry); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "catalog entry created",
		slog.String("kind", string(kind)),
		slog.Int64("id", entry.ID))
	respondJSON(w, http.StatusCreated, entry)
}

// ListEntries handles GET /api/v1/catalog/{kind}
func (h *CatalogHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entries, err := h.service.List(r.Context(), kind)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// GetEntry handles GET /api/v1/catalog/{kind}/{id}
func (h *CatalogHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry, err := h.service.Get(r.Context(), kind, id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// UpdateEntry handles PUT /api/v1/catalog/{kind}/{id}
func (h *CatalogHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req CatalogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry := req.ToDomain(kind)
	entry.ID = id
	if err := h.service.Update(r.Context(), entry); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// DeleteEntry handles DELETE /api/v1/catalog/{kind}/{id}
func (h *CatalogHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseCatalogKind(r.PathValue("kind"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), kind, id); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
