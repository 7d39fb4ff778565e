// internal/adapters/db/batch_repository.go
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type batchRepository struct {
	q DBTX
}

var _ ports.BatchRepository = (*batchRepository)(nil)

func scanBatch(row pgx.Row) (*domain.Batch, error) {
	b := &domain.Batch{}
	if err := row.Scan(&b.ID, &b.Note, &b.PurchaseDate, &b.CreatedAt); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *batchRepository) Create(ctx context.Context, b *domain.Batch) error {
	date := b.PurchaseDate
	if date.IsZero() {
		date = time.Now().UTC()
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO batches (note, purchase_date) VALUES ($1, $2)
		RETURNING id, purchase_date, created_at`, b.Note, date,
	).Scan(&b.ID, &b.PurchaseDate, &b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create batch: %w", err)
	}
	return nil
}

func (r *batchRepository) GetByID(ctx context.Context, id int64) (*domain.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx,
		`SELECT id, note, purchase_date, created_at FROM batches WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, "batch", id)
	}
	return b, nil
}

// List returns batches, newest first, each with its purchases attached.
func (r *batchRepository) List(ctx context.Context, start, end *time.Time) ([]domain.Batch, error) {
	qb := psql.Select("id", "note", "purchase_date", "created_at").
		From("batches").
		OrderBy("purchase_date DESC", "id DESC")
	if start != nil && end != nil {
		qb = qb.Where(squirrel.GtOrEq{"purchase_date": *start}).
			Where(squirrel.LtOrEq{"purchase_date": *end})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	batches, err := scanMany(rows, scanBatch)
	if err != nil || len(batches) == 0 {
		return batches, err
	}

	ids := make([]int64, len(batches))
	index := make(map[int64]int, len(batches))
	for i := range batches {
		ids[i] = batches[i].ID
		index[batches[i].ID] = i
		batches[i].Purchases = []domain.Purchase{}
	}

	query, args, err = purchaseSelect().
		Where(squirrel.Eq{"p.batch_id": ids}).
		OrderBy("p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err = r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch purchases: %w", err)
	}
	purchases, err := scanMany(rows, scanPurchase)
	if err != nil {
		return nil, err
	}
	for _, p := range purchases {
		i := index[p.BatchID]
		batches[i].Purchases = append(batches[i].Purchases, p)
	}
	return batches, nil
}

func (r *batchRepository) UpdateNote(ctx context.Context, id int64, note string) (*domain.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `
		UPDATE batches SET note = $2 WHERE id = $1
		RETURNING id, note, purchase_date, created_at`, id, note))
	if err != nil {
		return nil, translate(err, "batch", id)
	}
	return b, nil
}

func (r *batchRepository) CountPurchases(ctx context.Context, id int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchases WHERE batch_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count batch purchases: %w", err)
	}
	return n, nil
}

func (r *batchRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return translate(err, "batch", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound("batch", id)
	}
	return nil
}
