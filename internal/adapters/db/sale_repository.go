// internal/adapters/db/sale_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type saleRepository struct {
	q DBTX
}

var _ ports.SaleRepository = (*saleRepository)(nil)

func saleSelect() squirrel.SelectBuilder {
	return psql.Select(
		"s.id", "s.medicine_id", "m.name", "s.user_id", "s.quantity", "s.total_price", "s.created_at",
	).
		From("sales s").
		Join("medicines m ON m.id = s.medicine_id")
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	s := &domain.Sale{}
	err := row.Scan(&s.ID, &s.MedicineID, &s.MedicineName, &s.UserID, &s.Quantity, &s.TotalPrice, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *saleRepository) Create(ctx context.Context, s *domain.Sale) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO sales (medicine_id, user_id, quantity, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		s.MedicineID, s.UserID, s.Quantity, s.TotalPrice,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", translate(err, "sale", 0))
	}
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, id int64) (*domain.Sale, error) {
	query, args, err := saleSelect().Where(squirrel.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	s, err := scanSale(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translate(err, "sale", id)
	}
	return s, nil
}

func (r *saleRepository) List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	qb := saleSelect().OrderBy("s.created_at DESC", "s.id DESC")
	if filter.UserID > 0 {
		qb = qb.Where(squirrel.Eq{"s.user_id": filter.UserID})
	}
	if filter.StartDate != nil {
		qb = qb.Where(squirrel.GtOrEq{"s.created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		qb = qb.Where(squirrel.LtOrEq{"s.created_at": *filter.EndDate})
	}
	if filter.MedicineID > 0 {
		qb = qb.Where(squirrel.Eq{"s.medicine_id": filter.MedicineID})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return scanMany(rows, scanSale)
}
