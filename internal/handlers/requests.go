// internal/handlers/requests.go
package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string      `json:"name" validate:"required,min=2,max=100"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=admin pharmacist"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the body of POST /auth/refresh and, optionally,
// POST /auth/logout.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type CreatePurchaseRequest struct {
	MedicineID  int64            `json:"medicine_id" validate:"required,gt=0"`
	BatchID     int64            `json:"batch_id" validate:"required,gt=0"`
	SupplierID  *int64           `json:"supplier_id" validate:"omitempty,gt=0"`
	Quantity    int64            `json:"quantity" validate:"required,gt=0"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit" validate:"required"`
}

func (req *CreatePurchaseRequest) ToDomain(userID int64) domain.PurchaseInput {
	return domain.PurchaseInput{
		MedicineID:  req.MedicineID,
		BatchID:     req.BatchID,
		SupplierID:  req.SupplierID,
		UserID:      userID,
		Quantity:    req.Quantity,
		CostPerUnit: *req.CostPerUnit,
	}
}

// UpdatePurchaseRequest changes only the fields that are present.
type UpdatePurchaseRequest struct {
	MedicineID  *int64           `json:"medicine_id" validate:"omitempty,gt=0"`
	BatchID     *int64           `json:"batch_id" validate:"omitempty,gt=0"`
	SupplierID  *int64           `json:"supplier_id" validate:"omitempty,gt=0"`
	Quantity    *int64           `json:"quantity" validate:"omitempty,gt=0"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit"`
}

func (req *UpdatePurchaseRequest) ToDomain() domain.PurchaseUpdate {
	return domain.PurchaseUpdate{
		MedicineID:  req.MedicineID,
		BatchID:     req.BatchID,
		SupplierID:  req.SupplierID,
		Quantity:    req.Quantity,
		CostPerUnit: req.CostPerUnit,
	}
}

// CreateSaleRequest records a sale. Price, when present, replaces the
// computed total.
type CreateSaleRequest struct {
	MedicineID int64            `json:"medicine_id" validate:"required,gt=0"`
	Quantity   int64            `json:"quantity" validate:"required,gt=0"`
	Price      *decimal.Decimal `json:"price"`
}

func (req *CreateSaleRequest) ToDomain(userID int64) domain.SaleInput {
	return domain.SaleInput{
		MedicineID: req.MedicineID,
		UserID:     userID,
		Quantity:   req.Quantity,
		Price:      req.Price,
	}
}

type CreateBatchRequest struct {
	Note         string     `json:"note" validate:"max=500"`
	PurchaseDate *time.Time `json:"purchase_date"`
}

type UpdateBatchRequest struct {
	Note string `json:"note" validate:"max=500"`
}

// AdjustStockRequest carries a signed quantity change.
type AdjustStockRequest struct {
	Delta int64 `json:"delta" validate:"ne=0"`
}

type SetStockRequest struct {
	Quantity     *int64           `json:"quantity" validate:"required,gte=0"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit"`
}

func (req *SetStockRequest) Price() decimal.NullDecimal {
	if req.PricePerUnit == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*req.PricePerUnit)
}

// MedicineRequest creates or replaces a medicine. Catalog references take
// either an id or a name.
type MedicineRequest struct {
	Name            string           `json:"name" validate:"required,min=2,max=100"`
	Manufacturer    domain.NameOrID  `json:"manufacturer"`
	Unit            domain.NameOrID  `json:"unit"`
	Category        domain.NameOrID  `json:"category"`
	SellPrice       *decimal.Decimal `json:"sell_price" validate:"required"`
	Dosage          string           `json:"dosage" validate:"max=100"`
	Description     string           `json:"description" validate:"max=1000"`
	InitialQuantity *int64           `json:"initial_quantity" validate:"omitempty,gte=0"`
}

func (req *MedicineRequest) ToDomain() domain.MedicineInput {
	return domain.MedicineInput{
		Name:            req.Name,
		Manufacturer:    req.Manufacturer,
		Unit:            req.Unit,
		Category:        req.Category,
		SellPrice:       *req.SellPrice,
		Dosage:          req.Dosage,
		Description:     req.Description,
		InitialQuantity: req.InitialQuantity,
	}
}

type CatalogRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Contact string `json:"contact" validate:"max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"max=255"`
}

func (req *CatalogRequest) ToDomain(kind domain.CatalogKind) *domain.CatalogEntry {
	return &domain.CatalogEntry{
		Kind:    kind,
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}
}

type TransactionRequest struct {
	Type   string           `json:"type" validate:"required"`
	Amount *decimal.Decimal `json:"amount" validate:"required"`
	Note   string           `json:"note" validate:"max=500"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	Name     *string      `json:"name" validate:"omitempty,min=2,max=100"`
	Email    *string      `json:"email" validate:"omitempty,email"`
	Password *string      `json:"password" validate:"omitempty,min=8"`
	Role     *domain.Role `json:"role" validate:"omitempty,oneof=admin pharmacist"`
}

func (req *UpdateUserRequest) ToDomain() domain.UserUpdate {
	return domain.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
}

type AuditLogRequest struct {
	Action  string `json:"action" validate:"required,max=100"`
	Details string `json:"details" validate:"max=2000"`
}
