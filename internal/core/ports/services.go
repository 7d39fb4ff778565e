// internal/core/ports/services.go
package ports

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// StockService exposes the stock ledger.
type StockService interface {
	Get(ctx context.Context, medicineID int64) (*domain.StockEntry, error)
	List(ctx context.Context) ([]domain.StockEntry, error)
	Adjust(ctx context.Context, medicineID, delta int64) (*domain.StockEntry, error)
	SetAbsolute(ctx context.Context, medicineID, quantity int64, pricePerUnit decimal.NullDecimal) (*domain.StockEntry, error)
}

// PurchaseService records incoming stock.
type PurchaseService interface {
	Create(ctx context.Context, in domain.PurchaseInput) (*domain.Purchase, error)
	Get(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)
	Update(ctx context.Context, id int64, upd domain.PurchaseUpdate) (*domain.Purchase, error)
	Delete(ctx context.Context, id int64) error
}

// SaleService records outgoing stock.
type SaleService interface {
	Create(ctx context.Context, in domain.SaleInput) (*domain.Sale, error)
	Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Sale, error)
	List(ctx context.Context, caller domain.Identity, filter domain.SaleFilter) ([]domain.Sale, error)
}

// BatchService manages batches.
type BatchService interface {
	Create(ctx context.Context, note string, purchaseDate *time.Time) (*domain.Batch, error)
	Get(ctx context.Context, id int64) (*domain.Batch, error)
	List(ctx context.Context, start, end *time.Time) ([]domain.Batch, error)
	UpdateNote(ctx context.Context, id int64, note string) (*domain.Batch, error)
	Delete(ctx context.Context, id int64) error
	Summary(ctx context.Context, id int64) (*domain.BatchSummary, error)
}

// MedicineService manages the medicine registry.
type MedicineService interface {
	Create(ctx context.Context, in domain.MedicineInput) (*domain.Medicine, error)
	Get(ctx context.Context, id int64) (*domain.Medicine, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Medicine, error)
	Update(ctx context.Context, id int64, in domain.MedicineInput) (*domain.Medicine, error)
	Delete(ctx context.Context, id int64) error
}

// CatalogService manages reference catalog entries.
type CatalogService interface {
	FindOrCreate(ctx context.Context, kind domain.CatalogKind, token domain.NameOrID) (*domain.CatalogEntry, error)
	Create(ctx context.Context, entry *domain.CatalogEntry) error
	Get(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntry, error)
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error)
	Update(ctx context.Context, entry *domain.CatalogEntry) error
	Delete(ctx context.Context, kind domain.CatalogKind, id int64) error
}

// TransactionService records and lists financial transactions.
type TransactionService interface {
	Record(ctx context.Context, t domain.TransactionType, amount decimal.Decimal, note string) (*domain.Transaction, error)
	List(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionPage, error)
}

// AuditService records and lists audit entries.
type AuditService interface {
	Record(ctx context.Context, userID int64, action, details string) (*domain.AuditLog, error)
	// List returns every entry to admins and only their own to other callers.
	List(ctx context.Context, caller domain.Identity, filter domain.AuditLogFilter) (*domain.AuditLogPage, error)
}

// UserService administers user accounts.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, caller domain.Identity, id int64, upd domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Identity, id int64) error
}

// DashboardService builds the inventory overview.
type DashboardService interface {
	Get(ctx context.Context, lowStockThreshold int64) (*domain.Dashboard, error)
}

// ImportService replays spreadsheet rows, one unit of work per row.
type ImportService interface {
	ImportMedicines(ctx context.Context, rows []domain.MedicineRow) *domain.ImportReport
	ImportStock(ctx context.Context, userID int64, rows []domain.StockRow) *domain.ImportReport
	// Run parses data according to kind and imports it.
	Run(ctx context.Context, kind domain.ImportKind, userID int64, data []byte) (*domain.ImportReport, error)
}

// ImportJobService runs imports in the background.
type ImportJobService interface {
	Enqueue(ctx context.Context, kind domain.ImportKind, userID int64, filename string, r io.Reader) (*domain.ImportJob, error)
	Status(ctx context.Context, jobID string) (*domain.ImportJob, error)
	Process(ctx context.Context, payload ImportTaskPayload) error
}

// ImportTaskPayload is the queued description of an import job.
type ImportTaskPayload struct {
	JobID     string            `json:"job_id"`
	Kind      domain.ImportKind `json:"kind"`
	UserID    int64             `json:"user_id"`
	ObjectKey string            `json:"object_key"`
}

// AuthService issues and verifies credentials.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	Me(ctx context.Context, id int64) (*domain.User, error)
}

// TokenJanitor removes revocation records that no longer matter.
type TokenJanitor interface {
	PurgeRevoked(ctx context.Context) (int64, error)
}
