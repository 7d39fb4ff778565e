// internal/adapters/db/purchase_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type purchaseRepository struct {
	q DBTX
}

var _ ports.PurchaseRepository = (*purchaseRepository)(nil)

func purchaseSelect() squirrel.SelectBuilder {
	return psql.Select(
		"p.id", "p.medicine_id", "m.name", "p.batch_id", "p.supplier_id", "COALESCE(sp.name, '')",
		"p.user_id", "u.name", "p.quantity", "p.cost_per_unit", "p.created_at", "p.updated_at",
		"mf.name", "un.name", "c.name",
	).
		From("purchases p").
		Join("medicines m ON m.id = p.medicine_id").
		Join("manufacturers mf ON mf.id = m.manufacturer_id").
		Join("units un ON un.id = m.unit_id").
		Join("categories c ON c.id = m.category_id").
		Join("users u ON u.id = p.user_id").
		LeftJoin("suppliers sp ON sp.id = p.supplier_id")
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	p := &domain.Purchase{}
	err := row.Scan(
		&p.ID, &p.MedicineID, &p.MedicineName, &p.BatchID, &p.SupplierID, &p.SupplierName,
		&p.UserID, &p.UserName, &p.Quantity, &p.CostPerUnit, &p.CreatedAt, &p.UpdatedAt,
		&p.ManufacturerName, &p.UnitName, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *purchaseRepository) Create(ctx context.Context, p *domain.Purchase) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO purchases (medicine_id, batch_id, supplier_id, user_id, quantity, cost_per_unit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		p.MedicineID, p.BatchID, p.SupplierID, p.UserID, p.Quantity, p.CostPerUnit,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", translate(err, "purchase", 0))
	}
	return nil
}

func (r *purchaseRepository) get(ctx context.Context, id int64, suffix string) (*domain.Purchase, error) {
	qb := purchaseSelect().Where(squirrel.Eq{"p.id": id})
	if suffix != "" {
		qb = qb.Suffix(suffix)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	p, err := scanPurchase(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "purchase", id)
	}
	return p, nil
}

func (r *purchaseRepository) GetByID(ctx context.Context, id int64) (*domain.Purchase, error) {
	return r.get(ctx, id, "")
}

func (r *purchaseRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Purchase, error) {
	return r.get(ctx, id, "FOR UPDATE OF p")
}

func (r *purchaseRepository) List(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	qb := purchaseSelect().OrderBy("p.created_at DESC", "p.id DESC")
	if filter.StartDate != nil {
		qb = qb.Where(squirrel.GtOrEq{"p.created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		qb = qb.Where(squirrel.LtOrEq{"p.created_at": *filter.EndDate})
	}
	if filter.MedicineID > 0 {
		qb = qb.Where(squirrel.Eq{"p.medicine_id": filter.MedicineID})
	}
	if filter.BatchID > 0 {
		qb = qb.Where(squirrel.Eq{"p.batch_id": filter.BatchID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return scanMany(rows, scanPurchase)
}

func (r *purchaseRepository) Update(ctx context.Context, p *domain.Purchase) error {
	err := r.q.QueryRow(ctx, `
		UPDATE purchases SET
			medicine_id = $2, batch_id = $3, supplier_id = $4,
			quantity = $5, cost_per_unit = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.MedicineID, p.BatchID, p.SupplierID, p.Quantity, p.CostPerUnit,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return translate(err, "purchase", p.ID)
	}
	return nil
}

func (r *purchaseRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, id)
	if err != nil {
		return translate(err, "purchase", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("purchase", id)
	}
	return nil
}
