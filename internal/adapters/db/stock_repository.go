// internal/adapters/db/stock_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type stockRepository struct {
	q DBTX
}

var _ ports.StockRepository = (*stockRepository)(nil)

const stockReturning = "id, medicine_id, quantity, price_per_unit, updated_at"

func scanStock(row pgx.Row) (*domain.StockEntry, error) {
	s := &domain.StockEntry{}
	if err := row.Scan(&s.ID, &s.MedicineID, &s.Quantity, &s.PricePerUnit, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func scanStockWithName(row pgx.Row) (*domain.StockEntry, error) {
	s := &domain.StockEntry{}
	if err := row.Scan(&s.ID, &s.MedicineID, &s.MedicineName, &s.Quantity, &s.PricePerUnit, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *stockRepository) Get(ctx context.Context, medicineID int64) (*domain.StockEntry, error) {
	query := `
		SELECT s.id, s.medicine_id, m.name, s.quantity, s.price_per_unit, s.updated_at
		FROM stock s JOIN medicines m ON m.id = s.medicine_id
		WHERE s.medicine_id = $1`

	s, err := scanStockWithName(r.q.QueryRow(ctx, query, medicineID))
	if err != nil {
		return nil, translate(err, "stock entry for medicine", medicineID)
	}
	return s, nil
}

// Lock inserts an empty row when absent, then takes a row lock. A concurrent
// insert blocks on the unique index until the other transaction finishes, so
// both callers end up serialised on the same row.
func (r *stockRepository) Lock(ctx context.Context, medicineID int64) (*domain.StockEntry, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (medicine_id, quantity) VALUES ($1, 0)
		ON CONFLICT (medicine_id) DO NOTHING`, medicineID)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stock row: %w", translate(err, "medicine", medicineID))
	}

	s, err := scanStock(r.q.QueryRow(ctx,
		`SELECT `+stockReturning+` FROM stock WHERE medicine_id = $1 FOR UPDATE`, medicineID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock stock row: %w", translate(err, "stock entry for medicine", medicineID))
	}
	return s, nil
}

func (r *stockRepository) SetQuantity(ctx context.Context, medicineID, quantity int64) (*domain.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		UPDATE stock SET quantity = $2, updated_at = NOW()
		WHERE medicine_id = $1
		RETURNING `+stockReturning, medicineID, quantity))
	if err != nil {
		return nil, translate(err, "stock entry for medicine", medicineID)
	}
	return s, nil
}

func (r *stockRepository) Upsert(ctx context.Context, medicineID, quantity int64, pricePerUnit decimal.NullDecimal) (*domain.StockEntry, error) {
	s, err := scanStock(r.q.QueryRow(ctx, `
		INSERT INTO stock (medicine_id, quantity, price_per_unit) VALUES ($1, $2, $3)
		ON CONFLICT (medicine_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			price_per_unit = COALESCE(EXCLUDED.price_per_unit, stock.price_per_unit),
			updated_at = NOW()
		RETURNING `+stockReturning, medicineID, quantity, pricePerUnit))
	if err != nil {
		return nil, translate(err, "medicine", medicineID)
	}
	return s, nil
}

func (r *stockRepository) List(ctx context.Context) ([]domain.StockEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.medicine_id, m.name, s.quantity, s.price_per_unit, s.updated_at
		FROM stock s JOIN medicines m ON m.id = s.medicine_id
		ORDER BY m.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return scanMany(rows, scanStockWithName)
}
