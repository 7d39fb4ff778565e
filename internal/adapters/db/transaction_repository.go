// internal/adapters/db/transaction_repository.go
package db

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

type transactionRepository struct {
	q DBTX
}

var _ ports.TransactionRepository = (*transactionRepository)(nil)

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(&t.ID, &t.ReferenceNumber, &t.Type, &t.Sequence, &t.Amount,
		&t.PurchaseID, &t.SaleID, &t.Note, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NextSequence increments the per-type counter. The row lock taken by the
// upsert is held until the caller's transaction ends.
func (r *transactionRepository) NextSequence(ctx context.Context, t domain.TransactionType) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO transaction_sequences (type, value) VALUES ($1, 1)
		ON CONFLICT (type) DO UPDATE SET value = transaction_sequences.value + 1
		RETURNING value`, string(t)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to advance %s sequence: %w", t, err)
	}
	return n, nil
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO transactions (reference_number, type, sequence, amount, purchase_id, sale_id, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		t.ReferenceNumber, string(t.Type), t.Sequence, t.Amount, t.PurchaseID, t.SaleID, t.Note,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", translate(err, "transaction", 0))
	}
	return nil
}

func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int64, error) {
	where := squirrel.And{}
	if filter.Type != "" {
		where = append(where, squirrel.Eq{"type": string(filter.Type)})
	}
	if filter.SaleID > 0 {
		where = append(where, squirrel.Eq{"sale_id": filter.SaleID})
	}
	if filter.StartDate != nil {
		where = append(where, squirrel.GtOrEq{"created_at": *filter.StartDate})
	}
	if filter.EndDate != nil {
		where = append(where, squirrel.LtOrEq{"created_at": *filter.EndDate})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("transactions").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}
	var total int64
	if err := r.q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query, args, err := psql.Select(
		"id", "reference_number", "type", "sequence", "amount",
		"purchase_id", "sale_id", "note", "created_at",
	).
		From("transactions").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	items, err := scanMany(rows, scanTransaction)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
