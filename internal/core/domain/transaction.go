// internal/core/domain/transaction.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the financial transaction category.
type TransactionType string

const (
	TransactionSale     TransactionType = "SALE"
	TransactionPurchase TransactionType = "PURCHASE"
	TransactionExpense  TransactionType = "EXPENSE"
	TransactionFinance  TransactionType = "FINANCE"
)

// ParseTransactionType validates a type name.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case TransactionSale, TransactionPurchase, TransactionExpense, TransactionFinance:
		return t, nil
	}
	return "", NewValidation("type", fmt.Sprintf("unknown transaction type %q", s))
}

// Transaction is a financial record. ReferenceNumber is "{TYPE}-{Sequence}".
type Transaction struct {
	ID              int64           `json:"id"`
	ReferenceNumber string          `json:"reference_number"`
	Type            TransactionType `json:"type"`
	Sequence        int64           `json:"sequence"`
	Amount          decimal.Decimal `json:"amount"`
	PurchaseID      *int64          `json:"purchase_id,omitempty"`
	SaleID          *int64          `json:"sale_id,omitempty"`
	Note            string          `json:"note,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// FormatReference returns the reference number for type t and sequence n.
func FormatReference(t TransactionType, n int64) string {
	return fmt.Sprintf("%s-%d", t, n)
}

// TransactionFilter narrows and paginates transaction listings.
type TransactionFilter struct {
	Type      TransactionType
	SaleID    int64
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// Normalize applies pagination defaults.
func (f *TransactionFilter) Normalize() { normalizePaging(&f.Page, &f.Limit) }

// Offset returns the row offset for the current page.
func (f TransactionFilter) Offset() int { return (f.Page - 1) * f.Limit }

// TransactionPage is one page of transactions.
type TransactionPage = Page[Transaction]

// NewTransactionPage computes TotalPages from total and limit.
func NewTransactionPage(items []Transaction, f TransactionFilter, total int64) *TransactionPage {
	return NewPage(items, f.Page, f.Limit, total)
}
