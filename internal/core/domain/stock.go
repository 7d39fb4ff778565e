// internal/core/domain/stock.go
package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// StockEntry is the ledger row for a medicine. Quantity is never negative.
type StockEntry struct {
	ID           int64               `json:"id"`
	MedicineID   int64               `json:"medicine_id"`
	MedicineName string              `json:"medicine_name,omitempty"`
	Quantity     int64               `json:"quantity"`
	PricePerUnit decimal.NullDecimal `json:"price_per_unit"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// NextQuantity applies delta to current, failing when the result is negative
// or does not fit in an int64.
func NextQuantity(medicineID, current, delta int64) (int64, error) {
	if (delta > 0 && current > math.MaxInt64-delta) || delta == math.MinInt64 {
		return current, NewValidation("quantity", "out of range")
	}
	next := current + delta
	if next < 0 {
		return current, &InsufficientStockError{
			MedicineID: medicineID,
			Available:  current,
			Requested:  -delta,
		}
	}
	return next, nil
}
