// internal/handlers/audit_log.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// AuditLogHandler serves /audit-logs.
type AuditLogHandler struct {
	service ports.AuditService
	logger  *slog.Logger
}

func NewAuditLogHandler(service ports.AuditService, logger *slog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "audit_log")),
	}
}

// CreateAuditLog handles POST /api/v1/audit-logs. The entry belongs to the
// caller.
func (h *AuditLogHandler) CreateAuditLog(w http.ResponseWriter, r *http.Request) {
	who, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	var req AuditLogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	entry, err := h.service.Record(r.Context(), who.ID, req.Action, req.Details)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// ListAuditLogs handles GET /api/v1/audit-logs?page=&limit=
func (h *AuditLogHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, 0)
}

// ListUserAuditLogs handles GET /api/v1/audit-logs/user/{userId}
func (h *AuditLogHandler) ListUserAuditLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	h.list(w, r, userID)
}

func (h *AuditLogHandler) list(w http.ResponseWriter, r *http.Request, userID int64) {
	who, err := caller(r)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	filter := domain.AuditLogFilter{UserID: userID}
	if filter.Page, err = queryInt(r, "page"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	page, err := h.service.List(r.Context(), who, filter)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}
