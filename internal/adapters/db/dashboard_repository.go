// internal/adapters/db/dashboard_repository.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type dashboardRepository struct {
	q DBTX
}

var _ ports.DashboardRepository = (*dashboardRepository)(nil)

// Summary counts medicines without a ledger row as out of stock. Stock is
// valued at the ledger price, falling back to the medicine's sell price.
func (r *dashboardRepository) Summary(ctx context.Context, since time.Time, lowStock int64) (*domain.DashboardSummary, error) {
	s := &domain.DashboardSummary{}

	err := r.q.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(COALESCE(st.quantity, 0)), 0),
			COALESCE(SUM(COALESCE(st.quantity, 0) * COALESCE(st.price_per_unit, m.sell_price)), 0),
			COUNT(*) FILTER (WHERE COALESCE(st.quantity, 0) = 0),
			COUNT(*) FILTER (WHERE COALESCE(st.quantity, 0) < $1)
		FROM medicines m
		LEFT JOIN stock st ON st.medicine_id = m.id`, lowStock,
	).Scan(&s.MedicineCount, &s.UnitsInStock, &s.StockValue, &s.OutOfStock, &s.LowStock)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise stock: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_price), 0)
		FROM sales WHERE created_at >= $1`, since,
	).Scan(&s.SalesToday, &s.RevenueToday)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise sales: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(quantity * cost_per_unit), 0)
		FROM purchases WHERE created_at >= $1`, since,
	).Scan(&s.PurchasesToday, &s.SpendToday)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise purchases: %w", err)
	}
	return s, nil
}

func scanCategoryBreakdown(row pgx.Row) (*domain.CategoryBreakdown, error) {
	c := &domain.CategoryBreakdown{}
	if err := row.Scan(&c.Category, &c.MedicineCount, &c.Units); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *dashboardRepository) Categories(ctx context.Context) ([]domain.CategoryBreakdown, error) {
	rows, err := r.q.Query(ctx, `
		SELECT c.name, COUNT(m.id), COALESCE(SUM(st.quantity), 0)
		FROM categories c
		JOIN medicines m ON m.category_id = c.id
		LEFT JOIN stock st ON st.medicine_id = m.id
		GROUP BY c.name
		ORDER BY COUNT(m.id) DESC, c.name
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("failed to load category breakdown: %w", err)
	}
	return scanMany(rows, scanCategoryBreakdown)
}

func scanLowStockItem(row pgx.Row) (*domain.LowStockItem, error) {
	item := &domain.LowStockItem{}
	if err := row.Scan(&item.MedicineID, &item.MedicineName, &item.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// LowStock lists the emptiest medicines first.
func (r *dashboardRepository) LowStock(ctx context.Context, threshold int64, limit int) ([]domain.LowStockItem, error) {
	query, args, err := psql.
		Select("m.id", "m.name", "COALESCE(st.quantity, 0) AS quantity").
		From("medicines m").
		LeftJoin("stock st ON st.medicine_id = m.id").
		Where("COALESCE(st.quantity, 0) < ?", threshold).
		OrderBy("quantity ASC", "m.name").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return scanMany(rows, scanLowStockItem)
}
