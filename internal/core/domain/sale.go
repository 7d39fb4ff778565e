// internal/core/domain/sale.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale records outgoing stock.
type Sale struct {
	ID           int64           `json:"id"`
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	UserID       int64           `json:"user_id"`
	Quantity     int64           `json:"quantity"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	CreatedAt    time.Time       `json:"created_at"`
}

// SaleInput creates a sale. Price overrides the computed total when set.
type SaleInput struct {
	MedicineID int64
	UserID     int64
	Quantity   int64
	Price      *decimal.Decimal
}

// Validate checks ids, quantity and the optional price.
func (in *SaleInput) Validate() error {
	if in.MedicineID <= 0 {
		return NewValidation("medicine_id", "must be a positive integer")
	}
	if in.UserID <= 0 {
		return NewValidation("user_id", "must be a positive integer")
	}
	if in.Quantity <= 0 {
		return NewValidation("quantity", "must be positive")
	}
	if in.Price != nil {
		if err := ValidateMoney("price", *in.Price); err != nil {
			return err
		}
		return ValidateAmount("price", *in.Price)
	}
	return nil
}

// ComputeTotalPrice returns override when set, otherwise sellPrice * quantity.
func ComputeTotalPrice(sellPrice decimal.Decimal, quantity int64, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return sellPrice.Mul(decimal.NewFromInt(quantity))
}

// SaleFilter narrows sale listings. UserID zero means all users.
type SaleFilter struct {
	UserID     int64
	StartDate  *time.Time
	EndDate    *time.Time
	MedicineID int64
}
