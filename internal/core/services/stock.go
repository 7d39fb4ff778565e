// internal/core/services/stock.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// StockService exposes the stock ledger.
type StockService struct {
	store    ports.Store
	cache    ports.CacheRepository
	cacheTTL time.Duration
	forget   invalidator
	logger   *slog.Logger
}

var _ ports.StockService = (*StockService)(nil)

// NewStockService creates a new stock service
func NewStockService(store ports.Store, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *StockService {
	logger = logger.With(slog.String("service", "stock"))
	return &StockService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		forget:   invalidator{cache: cache, logger: logger},
		logger:   logger,
	}
}

// errRecentlyWritten makes GetOrSet skip caching a row read while a write
// to it may have been committing.
var errRecentlyWritten = errors.New("stock recently written")

// Get returns the ledger entry of a medicine. A medicine without a ledger
// row is reported as not found. Rows written in the last stockWriteHold
// are served from the database without being cached.
func (s *StockService) Get(ctx context.Context, medicineID int64) (*domain.StockEntry, error) {
	if medicineID <= 0 {
		return nil, domain.NewValidation("medicine_id", "must be a positive integer")
	}

	var (
		entry domain.StockEntry
		fresh *domain.StockEntry
	)
	key := ports.BuildKey(ports.PrefixStock, strconv.FormatInt(medicineID, 10))
	err := s.cache.GetOrSet(ctx, key, &entry, func() (interface{}, error) {
		e, err := s.store.Stock().Get(ctx, medicineID)
		if err != nil {
			return nil, err
		}
		if s.forget.stockHeld(ctx, medicineID) {
			fresh = e
			return nil, errRecentlyWritten
		}
		return e, nil
	}, s.cacheTTL)
	if errors.Is(err, errRecentlyWritten) {
		return fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *StockService) List(ctx context.Context) ([]domain.StockEntry, error) {
	entries, err := s.store.Stock().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return entries, nil
}

// Adjust applies delta to the ledger in its own transaction.
func (s *StockService) Adjust(ctx context.Context, medicineID, delta int64) (*domain.StockEntry, error) {
	if delta == 0 {
		return nil, domain.NewValidation("delta", "must not be zero")
	}

	var entry *domain.StockEntry
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Medicines().GetByID(ctx, medicineID); err != nil {
			return err
		}
		var err error
		entry, err = applyDelta(ctx, tx, medicineID, delta)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.forget.stock(ctx, medicineID)
	s.logger.InfoContext(ctx, "stock adjusted",
		slog.Int64("medicine_id", medicineID),
		slog.Int64("delta", delta),
		slog.Int64("quantity", entry.Quantity))

	return entry, nil
}

// SetAbsolute overwrites the ledger quantity, creating the row if needed.
func (s *StockService) SetAbsolute(ctx context.Context, medicineID, quantity int64, pricePerUnit decimal.NullDecimal) (*domain.StockEntry, error) {
	if quantity < 0 {
		return nil, domain.NewValidation("quantity", "cannot be negative")
	}
	if pricePerUnit.Valid {
		if err := domain.ValidateMoney("price_per_unit", pricePerUnit.Decimal); err != nil {
			return nil, err
		}
	}

	var entry *domain.StockEntry
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Medicines().GetByID(ctx, medicineID); err != nil {
			return err
		}
		var err error
		entry, err = tx.Stock().Upsert(ctx, medicineID, quantity, pricePerUnit)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.forget.stock(ctx, medicineID)
	s.logger.InfoContext(ctx, "stock set",
		slog.Int64("medicine_id", medicineID),
		slog.Int64("quantity", quantity))

	return entry, nil
}
