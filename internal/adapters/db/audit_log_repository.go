// internal/adapters/db/audit_log_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type auditLogRepository struct {
	q DBTX
}

var _ ports.AuditLogRepository = (*auditLogRepository)(nil)

func scanAuditLog(row pgx.Row) (*domain.AuditLog, error) {
	a := &domain.AuditLog{}
	err := row.Scan(&a.ID, &a.UserID, &a.UserName, &a.UserEmail, &a.UserRole,
		&a.Action, &a.Details, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *auditLogRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO audit_logs (user_id, action, details) VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		a.UserID, a.Action, a.Details,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", translate(err, "user", 0))
	}
	return nil
}

// List returns one page of entries, newest first, with the total count.
func (r *auditLogRepository) List(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error) {
	where := squirrel.And{}
	if filter.UserID > 0 {
		where = append(where, squirrel.Eq{"a.user_id": filter.UserID})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("audit_logs a").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query, args, err := psql.Select(
		"a.id", "a.user_id",
		"COALESCE(u.name, '')", "COALESCE(u.email, '')", "COALESCE(u.role, '')",
		"a.action", "a.details", "a.created_at",
	).
		From("audit_logs a").
		LeftJoin("users u ON u.id = a.user_id").
		Where(where).
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	items, err := scanMany(rows, scanAuditLog)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
