// internal/core/domain/medicine.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Medicine is a registry record. (Name, ManufacturerID) is unique.
type Medicine struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	ManufacturerID   int64           `json:"manufacturer_id"`
	ManufacturerName string          `json:"manufacturer,omitempty"`
	UnitID           int64           `json:"unit_id"`
	UnitName         string          `json:"unit,omitempty"`
	CategoryID       int64           `json:"category_id"`
	CategoryName     string          `json:"category,omitempty"`
	SellPrice        decimal.Decimal `json:"sell_price"`
	Dosage           string          `json:"dosage,omitempty"`
	Description      string          `json:"description,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MedicineInput is what callers supply to create or update a medicine.
type MedicineInput struct {
	Name            string
	Manufacturer    NameOrID
	Unit            NameOrID
	Category        NameOrID
	SellPrice       decimal.Decimal
	Dosage          string
	Description     string
	InitialQuantity *int64
}

// Validate checks the input and normalises the name.
func (m *MedicineInput) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	if n := len(m.Name); n < 2 || n > 100 {
		return NewValidation("name", "must be between 2 and 100 characters")
	}
	if m.Manufacturer.IsZero() {
		return NewValidation("manufacturer", "is required")
	}
	if m.Unit.IsZero() {
		return NewValidation("unit", "is required")
	}
	if m.Category.IsZero() {
		return NewValidation("category", "is required")
	}
	if err := ValidateMoney("sell_price", m.SellPrice); err != nil {
		return err
	}
	if m.InitialQuantity != nil && *m.InitialQuantity < 0 {
		return NewValidation("initial_quantity", "cannot be negative")
	}
	return nil
}

// MaxAmount is the largest total the ledger's NUMERIC(14,2) columns hold.
var MaxAmount = decimal.RequireFromString("999999999999.99")

// ValidateAmount rejects computed totals the ledger cannot store.
func ValidateAmount(field string, v decimal.Decimal) error {
	if v.GreaterThan(MaxAmount) {
		return NewValidation(field, "total exceeds "+MaxAmount.String())
	}
	return nil
}

// ValidateMoney rejects negative values and more than two decimal places.
func ValidateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return NewValidation(field, "cannot be negative")
	}
	if !v.Equal(v.Round(2)) {
		return NewValidation(field, "must have at most 2 decimal places")
	}
	return nil
}
