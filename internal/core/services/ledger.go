// internal/core/services/ledger.go
package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// applyDelta moves the ledger quantity of medicineID by delta. It must run
// inside tx so the row lock is held until the caller commits.
func applyDelta(ctx context.Context, tx ports.Store, medicineID, delta int64) (*domain.StockEntry, error) {
	entry, err := tx.Stock().Lock(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	next, err := domain.NextQuantity(medicineID, entry.Quantity, delta)
	if err != nil {
		return nil, err
	}
	if next == entry.Quantity {
		return entry, nil
	}

	return tx.Stock().SetQuantity(ctx, medicineID, next)
}

type ledgerMove struct {
	medicineID int64
	delta      int64
}

// applyDeltas applies several moves in ascending medicine id order so two
// transactions touching the same rows lock them in the same order.
func applyDeltas(ctx context.Context, tx ports.Store, moves ...ledgerMove) error {
	sort.SliceStable(moves, func(i, j int) bool { return moves[i].medicineID < moves[j].medicineID })
	for _, m := range moves {
		if _, err := applyDelta(ctx, tx, m.medicineID, m.delta); err != nil {
			return err
		}
	}
	return nil
}

// recordTransaction numbers and stores a financial transaction of type t.
func recordTransaction(ctx context.Context, tx ports.Store, t domain.TransactionType, amount decimal.Decimal, note string, purchaseID, saleID *int64) (*domain.Transaction, error) {
	seq, err := tx.Transactions().NextSequence(ctx, t)
	if err != nil {
		return nil, err
	}

	record := &domain.Transaction{
		ReferenceNumber: domain.FormatReference(t, seq),
		Type:            t,
		Sequence:        seq,
		Amount:          amount,
		PurchaseID:      purchaseID,
		SaleID:          saleID,
		Note:            note,
	}
	if err := tx.Transactions().Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// stockWriteHold is how long stock reads skip populating the cache after a
// write. It bounds the time between a reader's database read and its
// cache write.
const stockWriteHold = 30 * time.Second

// invalidator drops cached reads after a committed write. Failures are
// logged and otherwise ignored; entries also expire on their own.
type invalidator struct {
	cache  ports.CacheRepository
	logger *slog.Logger
}

// stock drops the cached ledger rows and marks them as recently written.
// The mark is set before the delete so a reader that loaded the old row
// either sees the mark and skips caching, or caches before the delete.
func (i invalidator) stock(ctx context.Context, medicineIDs ...int64) {
	if i.cache == nil {
		return
	}
	keys := make([]string, 0, len(medicineIDs))
	for _, id := range medicineIDs {
		hold := ports.BuildKey(ports.PrefixStockHold, strconv.FormatInt(id, 10))
		if err := i.cache.SetWithTTL(ctx, hold, true, stockWriteHold); err != nil {
			i.logger.WarnContext(ctx, "failed to mark stock write",
				slog.Int64("medicine_id", id),
				slog.String("error", err.Error()))
		}
		keys = append(keys, ports.BuildKey(ports.PrefixStock, strconv.FormatInt(id, 10)))
	}
	i.forget(ctx, keys...)
}

// stockHeld reports whether medicineID was written within stockWriteHold.
// An unreachable cache counts as held.
func (i invalidator) stockHeld(ctx context.Context, medicineID int64) bool {
	if i.cache == nil {
		return false
	}
	held, err := i.cache.Exists(ctx, ports.BuildKey(ports.PrefixStockHold, strconv.FormatInt(medicineID, 10)))
	return err != nil || held
}

func (i invalidator) batchSummary(ctx context.Context, batchIDs ...int64) {
	keys := make([]string, 0, len(batchIDs))
	for _, id := range batchIDs {
		keys = append(keys, ports.BuildKey(ports.PrefixBatchSummary, strconv.FormatInt(id, 10)))
	}
	i.forget(ctx, keys...)
}

// allBatchSummaries drops every cached summary, for renames that change
// the names summaries display.
func (i invalidator) allBatchSummaries(ctx context.Context) {
	if i.cache == nil {
		return
	}
	pattern := ports.BuildKey(ports.PrefixBatchSummary, "*")
	if err := i.cache.DeletePattern(ctx, pattern); err != nil {
		i.logger.WarnContext(ctx, "failed to invalidate cache",
			slog.String("pattern", pattern),
			slog.String("error", err.Error()))
	}
}

func (i invalidator) forget(ctx context.Context, keys ...string) {
	if i.cache == nil || len(keys) == 0 {
		return
	}
	if err := i.cache.Delete(ctx, keys...); err != nil {
		i.logger.WarnContext(ctx, "failed to invalidate cache",
			slog.Any("keys", keys),
			slog.String("error", err.Error()))
	}
}
