// internal/core/ports/repositories.go
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
)

// CatalogRepository persists manufacturers, units, categories and suppliers.
type CatalogRepository interface {
	// Upsert returns the entry with the given name, creating it if absent.
	Upsert(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error)
	Create(ctx context.Context, entry *domain.CatalogEntry) error
	GetByID(ctx context.Context, kind domain.CatalogKind, id int64) (*domain.CatalogEntry, error)
	GetByName(ctx context.Context, kind domain.CatalogKind, name string) (*domain.CatalogEntry, error)
	List(ctx context.Context, kind domain.CatalogKind) ([]domain.CatalogEntry, error)
	Update(ctx context.Context, entry *domain.CatalogEntry) error
	Delete(ctx context.Context, kind domain.CatalogKind, id int64) error
}

// MedicineRepository persists the medicine registry.
type MedicineRepository interface {
	Create(ctx context.Context, m *domain.Medicine) error
	GetByID(ctx context.Context, id int64) (*domain.Medicine, error)
	FindByNameAndManufacturer(ctx context.Context, name string, manufacturerID int64) (*domain.Medicine, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Medicine, error)
	Update(ctx context.Context, m *domain.Medicine) error
	Delete(ctx context.Context, id int64) error
}

// StockRepository persists ledger rows.
type StockRepository interface {
	Get(ctx context.Context, medicineID int64) (*domain.StockEntry, error)
	// Lock ensures a row exists for the medicine and locks it until the
	// enclosing transaction ends.
	Lock(ctx context.Context, medicineID int64) (*domain.StockEntry, error)
	SetQuantity(ctx context.Context, medicineID, quantity int64) (*domain.StockEntry, error)
	Upsert(ctx context.Context, medicineID, quantity int64, pricePerUnit decimal.NullDecimal) (*domain.StockEntry, error)
	List(ctx context.Context) ([]domain.StockEntry, error)
}

// BatchRepository persists batches.
type BatchRepository interface {
	Create(ctx context.Context, b *domain.Batch) error
	GetByID(ctx context.Context, id int64) (*domain.Batch, error)
	List(ctx context.Context, start, end *time.Time) ([]domain.Batch, error)
	UpdateNote(ctx context.Context, id int64, note string) (*domain.Batch, error)
	CountPurchases(ctx context.Context, id int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// PurchaseRepository persists purchases.
type PurchaseRepository interface {
	Create(ctx context.Context, p *domain.Purchase) error
	GetByID(ctx context.Context, id int64) (*domain.Purchase, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Purchase, error)
	List(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)
	Update(ctx context.Context, p *domain.Purchase) error
	Delete(ctx context.Context, id int64) error
}

// SaleRepository persists sales.
type SaleRepository interface {
	Create(ctx context.Context, s *domain.Sale) error
	GetByID(ctx context.Context, id int64) (*domain.Sale, error)
	List(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
}

// TransactionRepository persists financial transactions.
type TransactionRepository interface {
	// NextSequence atomically increments and returns the counter for t.
	NextSequence(ctx context.Context, t domain.TransactionType) (int64, error)
	Create(ctx context.Context, tx *domain.Transaction) error
	List(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, int64, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id int64) error
}

// AuditLogRepository persists the audit trail.
type AuditLogRepository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, int64, error)
}

// RevokedTokenRepository persists revoked token ids.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// DashboardRepository runs the read-only aggregates behind the dashboard.
type DashboardRepository interface {
	Summary(ctx context.Context, since time.Time, lowStock int64) (*domain.DashboardSummary, error)
	Categories(ctx context.Context) ([]domain.CategoryBreakdown, error)
	LowStock(ctx context.Context, threshold int64, limit int) ([]domain.LowStockItem, error)
}

// Store gives access to every repository and runs units of work.
// Repositories returned by the Store passed to fn share one database
// transaction, committed when fn returns nil and rolled back otherwise.
type Store interface {
	Catalog() CatalogRepository
	Medicines() MedicineRepository
	Stock() StockRepository
	Batches() BatchRepository
	Purchases() PurchaseRepository
	Sales() SaleRepository
	Transactions() TransactionRepository
	Users() UserRepository
	RevokedTokens() RevokedTokenRepository
	AuditLogs() AuditLogRepository
	Dashboard() DashboardRepository

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}
