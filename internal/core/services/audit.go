// internal/core/services/audit.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// AuditService keeps the audit trail.
type AuditService struct {
	store  ports.Store
	logger *slog.Logger
}

var _ ports.AuditService = (*AuditService)(nil)

// NewAuditService creates a new audit service
func NewAuditService(store ports.Store, logger *slog.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger.With(slog.String("service", "audit")),
	}
}

// Record stores an entry on behalf of userID.
func (s *AuditService) Record(ctx context.Context, userID int64, action, details string) (*domain.AuditLog, error) {
	entry, err := recordAudit(ctx, s.store, userID, action, details)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "audit entry recorded",
		slog.Int64("user_id", userID),
		slog.String("action", entry.Action))
	return entry, nil
}

func (s *AuditService) List(ctx context.Context, caller domain.Identity, filter domain.AuditLogFilter) (*domain.AuditLogPage, error) {
	filter.Normalize()
	if !caller.IsAdmin() {
		filter.UserID = caller.ID
	}

	items, total, err := s.store.AuditLogs().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return domain.NewPage(items, filter.Page, filter.Limit, total), nil
}

// recordAudit validates and stores an entry through store, which may be
// bound to the caller's transaction.
func recordAudit(ctx context.Context, store ports.Store, userID int64, action, details string) (*domain.AuditLog, error) {
	entry := &domain.AuditLog{UserID: &userID, Action: action, Details: details}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := store.AuditLogs().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
