// internal/core/domain/dashboard.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the quantity below which a medicine is
// reported as running low.
const DefaultLowStockThreshold int64 = 10

// DashboardSummary aggregates the ledger and the day's activity.
type DashboardSummary struct {
	MedicineCount  int64           `json:"medicine_count"`
	UnitsInStock   int64           `json:"units_in_stock"`
	StockValue     decimal.Decimal `json:"stock_value"`
	OutOfStock     int64           `json:"out_of_stock"`
	LowStock       int64           `json:"low_stock"`
	SalesToday     int64           `json:"sales_today"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	PurchasesToday int64           `json:"purchases_today"`
	SpendToday     decimal.Decimal `json:"spend_today"`
}

// CategoryBreakdown counts medicines and stocked units per category.
type CategoryBreakdown struct {
	Category      string `json:"category"`
	MedicineCount int64  `json:"medicine_count"`
	Units         int64  `json:"units"`
}

// LowStockItem is a medicine whose quantity is under the threshold.
type LowStockItem struct {
	MedicineID   int64  `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	Quantity     int64  `json:"quantity"`
}

// Dashboard is the overview returned by GET /api/v1/dashboard.
type Dashboard struct {
	Summary            DashboardSummary    `json:"summary"`
	Categories         []CategoryBreakdown `json:"categories"`
	LowStock           []LowStockItem      `json:"low_stock"`
	RecentTransactions []Transaction       `json:"recent_transactions"`
	Threshold          int64               `json:"low_stock_threshold"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
