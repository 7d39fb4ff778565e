// internal/core/services/transaction.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// TransactionService records manual entries and lists the journal.
type TransactionService struct {
	store  ports.Store
	logger *slog.Logger
}

var _ ports.TransactionService = (*TransactionService)(nil)

// NewTransactionService creates a new transaction service
func NewTransactionService(store ports.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger.With(slog.String("service", "transaction")),
	}
}

// Record stores a manual EXPENSE or FINANCE entry. SALE and PURCHASE
// entries only come from their own services.
func (s *TransactionService) Record(ctx context.Context, t domain.TransactionType, amount decimal.Decimal, note string) (*domain.Transaction, error) {
	t, err := domain.ParseTransactionType(string(t))
	if err != nil {
		return nil, err
	}
	if t == domain.TransactionSale || t == domain.TransactionPurchase {
		return nil, domain.NewValidation("type", fmt.Sprintf("%s transactions are recorded automatically", t))
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidation("amount", "must be positive")
	}
	if err := domain.ValidateMoney("amount", amount); err != nil {
		return nil, err
	}

	var record *domain.Transaction
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		var err error
		record, err = recordTransaction(ctx, tx, t, amount, strings.TrimSpace(note), nil, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "transaction recorded",
		slog.String("reference", record.ReferenceNumber),
		slog.String("amount", record.Amount.StringFixed(2)))

	return record, nil
}

func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error) {
	filter.Normalize()
	if filter.Type != "" {
		t, err := domain.ParseTransactionType(string(filter.Type))
		if err != nil {
			return nil, err
		}
		filter.Type = t
	}
	if filter.SaleID < 0 {
		return nil, domain.NewValidation("sale_id", "must be a positive integer")
	}

	items, total, err := s.store.Transactions().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return domain.NewTransactionPage(items, filter, total), nil
}
