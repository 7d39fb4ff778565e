// internal/core/domain/import.go
package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// ImportKind selects the spreadsheet template.
type ImportKind string

const (
	ImportMedicines ImportKind = "medicines"
	ImportStock     ImportKind = "stock"
)

// ParseImportKind validates an import kind.
func ParseImportKind(s string) (ImportKind, error) {
	switch ImportKind(s) {
	case ImportMedicines, ImportStock:
		return ImportKind(s), nil
	}
	return "", NewValidation("kind", "must be medicines or stock")
}

// RowError records a failed spreadsheet row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarises a bulk import.
type ImportReport struct {
	SuccessCount int        `json:"success_count"`
	ErrorCount   int        `json:"error_count"`
	Errors       []RowError `json:"errors"`
}

// Fail records a failed row.
func (r *ImportReport) Fail(row int, err error) {
	r.ErrorCount++
	r.Errors = append(r.Errors, RowError{Row: row, Message: err.Error()})
}

// MedicineRow is a parsed row of the medicines template.
type MedicineRow struct {
	Row          int
	Name         string
	Manufacturer string
	Unit         string
	Category     string
	SellPrice    string
	Quantity     string
	Dosage       string
	Description  string
}

// StockRow is a parsed row of the stock template.
type StockRow struct {
	Row          int
	Medicine     string
	Manufacturer string
	BatchID      string
	Supplier     string
	Quantity     string
	CostPerUnit  string
}

// ImportJob is the status of an asynchronous import.
type ImportJob struct {
	ID     string        `json:"job_id"`
	Kind   ImportKind    `json:"kind"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
	Report *ImportReport `json:"report,omitempty"`
}

// Import job statuses.
const (
	ImportJobQueued    = "queued"
	ImportJobCompleted = "completed"
	ImportJobFailed    = "failed"
)

// ParseQuantity parses a non-negative integer cell.
func ParseQuantity(field, s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, NewValidation(field, "must be a whole number")
	}
	if d.IsNegative() {
		return 0, NewValidation(field, "cannot be negative")
	}
	if d.GreaterThan(maxQuantity) {
		return 0, NewValidation(field, "out of range")
	}
	return d.IntPart(), nil
}

// ParseMoney parses a money cell.
func ParseMoney(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidation(field, "must be a number")
	}
	return d, ValidateMoney(field, d)
}
