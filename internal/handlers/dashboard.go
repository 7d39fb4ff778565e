// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// DashboardHandler serves the inventory overview.
type DashboardHandler struct {
	service ports.DashboardService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service ports.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/v1/dashboard?low_stock=
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt64(r, "low_stock")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	dashboard, err := h.service.Get(r.Context(), threshold)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}
