// internal/core/domain/purchase.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase records incoming stock for a medicine within a batch.
type Purchase struct {
	ID           int64           `json:"id"`
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name,omitempty"`
	BatchID      int64           `json:"batch_id"`
	SupplierID   *int64          `json:"supplier_id,omitempty"`
	SupplierName string          `json:"supplier_name,omitempty"`
	UserID       int64           `json:"user_id"`
	UserName     string          `json:"user_name,omitempty"`
	Quantity     int64           `json:"quantity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Display-only fields populated by batch listings.
	ManufacturerName string `json:"manufacturer,omitempty"`
	UnitName         string `json:"unit,omitempty"`
	CategoryName     string `json:"category,omitempty"`
}

// TotalCost is Quantity * CostPerUnit.
func (p *Purchase) TotalCost() decimal.Decimal {
	return p.CostPerUnit.Mul(decimal.NewFromInt(p.Quantity))
}

// PurchaseInput creates a purchase.
type PurchaseInput struct {
	MedicineID  int64
	BatchID     int64
	SupplierID  *int64
	UserID      int64
	Quantity    int64
	CostPerUnit decimal.Decimal
}

// Validate checks ids and amounts.
func (in *PurchaseInput) Validate() error {
	if in.MedicineID <= 0 {
		return NewValidation("medicine_id", "must be a positive integer")
	}
	if in.BatchID <= 0 {
		return NewValidation("batch_id", "must be a positive integer")
	}
	if in.UserID <= 0 {
		return NewValidation("user_id", "must be a positive integer")
	}
	if in.SupplierID != nil && *in.SupplierID <= 0 {
		return NewValidation("supplier_id", "must be a positive integer")
	}
	if in.Quantity <= 0 {
		return NewValidation("quantity", "must be positive")
	}
	if err := ValidateMoney("cost_per_unit", in.CostPerUnit); err != nil {
		return err
	}
	return ValidateAmount("quantity", in.CostPerUnit.Mul(decimal.NewFromInt(in.Quantity)))
}

// PurchaseUpdate holds the optional fields of a purchase update.
type PurchaseUpdate struct {
	MedicineID  *int64
	BatchID     *int64
	SupplierID  *int64
	Quantity    *int64
	CostPerUnit *decimal.Decimal
}

// Validate checks the fields that are set.
func (u *PurchaseUpdate) Validate() error {
	if u.MedicineID != nil && *u.MedicineID <= 0 {
		return NewValidation("medicine_id", "must be a positive integer")
	}
	if u.BatchID != nil && *u.BatchID <= 0 {
		return NewValidation("batch_id", "must be a positive integer")
	}
	if u.SupplierID != nil && *u.SupplierID <= 0 {
		return NewValidation("supplier_id", "must be a positive integer")
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return NewValidation("quantity", "must be positive")
	}
	if u.CostPerUnit != nil {
		return ValidateMoney("cost_per_unit", *u.CostPerUnit)
	}
	return nil
}

// Apply returns a copy of p with the update applied.
func (u *PurchaseUpdate) Apply(p Purchase) Purchase {
	if u.MedicineID != nil {
		p.MedicineID = *u.MedicineID
	}
	if u.BatchID != nil {
		p.BatchID = *u.BatchID
	}
	if u.SupplierID != nil {
		p.SupplierID = u.SupplierID
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}
	if u.CostPerUnit != nil {
		p.CostPerUnit = *u.CostPerUnit
	}
	return p
}

// PurchaseFilter narrows purchase listings.
type PurchaseFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	MedicineID int64
	BatchID    int64
}
