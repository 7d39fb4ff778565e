// internal/adapters/db/errors.go
package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// translate maps driver errors onto domain errors. Other errors are
// returned unchanged.
func translate(err error, entity string, id int64) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewNotFound(entity, id)
	}
	switch pgErrorCode(err) {
	case codeUniqueViolation:
		return domain.NewConflict("%s already exists", entity)
	case codeForeignKeyViolation:
		return domain.NewConflict("%s is referenced by other records", entity)
	case codeCheckViolation:
		return domain.NewValidation(entity, "violates a check constraint")
	}
	return err
}
