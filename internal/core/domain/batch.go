// internal/core/domain/batch.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Batch groups purchases recorded for one delivery.
type Batch struct {
	ID           int64      `json:"id"`
	Note         string     `json:"note,omitempty"`
	PurchaseDate time.Time  `json:"purchase_date"`
	CreatedAt    time.Time  `json:"created_at"`
	Purchases    []Purchase `json:"purchases,omitempty"`
}

// BatchSummaryLine is one purchase within a batch summary.
type BatchSummaryLine struct {
	PurchaseID   int64           `json:"purchase_id"`
	MedicineID   int64           `json:"medicine_id"`
	MedicineName string          `json:"medicine_name"`
	Quantity     int64           `json:"quantity"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
}

// BatchSummary aggregates the purchases of a batch.
type BatchSummary struct {
	BatchID        int64              `json:"batch_id"`
	PurchaseDate   time.Time          `json:"purchase_date"`
	Note           string             `json:"note,omitempty"`
	TotalPurchases int                `json:"total_purchases"`
	TotalQuantity  int64              `json:"total_quantity"`
	TotalCost      decimal.Decimal    `json:"total_cost"`
	Purchases      []BatchSummaryLine `json:"purchases"`
}

// Summarize builds a BatchSummary using exact decimal arithmetic.
func Summarize(b *Batch, purchases []Purchase) *BatchSummary {
	s := &BatchSummary{
		BatchID:      b.ID,
		PurchaseDate: b.PurchaseDate,
		Note:         b.Note,
		TotalCost:    decimal.Zero,
		Purchases:    make([]BatchSummaryLine, 0, len(purchases)),
	}
	for _, p := range purchases {
		line := BatchSummaryLine{
			PurchaseID:   p.ID,
			MedicineID:   p.MedicineID,
			MedicineName: p.MedicineName,
			Quantity:     p.Quantity,
			CostPerUnit:  p.CostPerUnit,
			TotalCost:    p.TotalCost(),
		}
		s.TotalPurchases++
		s.TotalQuantity += p.Quantity
		s.TotalCost = s.TotalCost.Add(line.TotalCost)
		s.Purchases = append(s.Purchases, line)
	}
	return s
}
