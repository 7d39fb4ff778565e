// internal/adapters/db/catalog_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type catalogRepository struct {
	q DBTX
}

var _ ports.CatalogRepository = (*catalogRepository)(nil)

const catalogColumns = "id, name, contact, email, address, created_at"

// catalogSelect returns the select list for kind; only suppliers carry
// contact details.
func catalogSelect(kind domain.CatalogKind) (string, error) {
	switch kind {
	case domain.CatalogSupplier:
		return catalogColumns, nil
	case domain.CatalogManufacturer, domain.CatalogUnit, domain.CatalogCategory:
		return "id, name, '' AS contact, '' AS email, '' AS address, created_at", nil
	}
	return "", domain.NewValidation("kind", fmt.Sprintf("unknown catalog kind %q", kind))
}

func scanCatalogEntry(kind domain.CatalogKind) func(pgx.Row) (*domain.CatalogEntry, error) {
	return func(row pgx.Row) (*domain.CatalogEntry, error) {
		e := &domain.CatalogEntry{Kind: kind}
		if err := row.Scan(&e.ID, &e.Name, &e.Contact, &e.Email, &e.Address, &e.CreatedAt); err != nil {
			return nil, err
		}
		return e, nil
	}
}

func (r *catalogRepository) Upsert(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error) {
	cols, err := catalogSelect(kind)
	if err != nil {
		return nil, err
	}
	table := pgx.Identifier{string(kind)}.Sanitize()

	// The no-op update makes RETURNING yield the existing row.
	query := fmt.Sprintf(`
		INSERT INTO %s (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING %s`, table, cols)

	entry, err := scanCatalogEntry(kind)(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert %s: %w", kind.Entity(), translate(err, kind.Entity(), 0))
	}
	return entry, nil
}

func (r *catalogRepository) Create(ctx context.Context, entry *domain.CatalogEntry) error {
	cols, err := catalogSelect(entry.Kind)
	if err != nil {
		return err
	}

	qb := psql.Insert(string(entry.Kind)).Columns("name").Values(entry.Name)
	if entry.Kind == domain.CatalogSupplier {
		qb = psql.Insert(string(entry.Kind)).
			Columns("name", "contact", "email", "address").
			Values(entry.Name, entry.Contact, entry.Email, entry.Address)
	}
	query, args, err := qb.Suffix("RETURNING " + cols).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	created, err := scanCatalogEntry(entry.Kind)(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", entry.Kind.Entity(), translate(err, entry.Kind.Entity(), 0))
	}
	*entry = *created
	return nil
}

func (r *catalogRepository) GetByID(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntry, error) {
	cols, err := catalogSelect(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select(cols).From(string(kind)).Where("id = ?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	entry, err := scanCatalogEntry(kind)(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, kind.Entity(), id)
	}
	return entry, nil
}

func (r *catalogRepository) GetByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error) {
	cols, err := catalogSelect(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select(cols).From(string(kind)).Where("lower(name) = lower(?)", name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	entry, err := scanCatalogEntry(kind)(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, kind.Entity(), 0)
	}
	return entry, nil
}

func (r *catalogRepository) List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error) {
	cols, err := catalogSelect(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select(cols).From(string(kind)).OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return scanMany(rows, scanCatalogEntry(kind))
}

// Update renames entry and, for suppliers, replaces the contact details.
func (r *catalogRepository) Update(ctx context.Context, entry *domain.CatalogEntry) error {
	cols, err := catalogSelect(entry.Kind)
	if err != nil {
		return err
	}

	qb := psql.Update(string(entry.Kind)).Set("name", entry.Name)
	if entry.Kind == domain.CatalogSupplier {
		qb = qb.Set("contact", entry.Contact).
			Set("email", entry.Email).
			Set("address", entry.Address)
	}
	query, args, err := qb.Where("id = ?", entry.ID).Suffix("RETURNING " + cols).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	updated, err := scanCatalogEntry(entry.Kind)(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return translate(err, entry.Kind.Entity(), entry.ID)
	}
	*entry = *updated
	return nil
}

func (r *catalogRepository) Delete(ctx context.Context, kind domain.CatalogKind, id int64) error {
	if _, err := catalogSelect(kind); err != nil {
		return err
	}
	query, args, err := psql.Delete(string(kind)).Where("id = ?", id).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return translate(err, kind.Entity(), id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(kind.Entity(), id)
	}
	return nil
}
