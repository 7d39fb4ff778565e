// internal/adapters/db/store.go
package db

import (
	"context"
	"log/slog"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// psql is the squirrel builder used by every repository.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store implements ports.Store on top of a Database. A Store bound to a
// transaction hands out repositories that run inside that transaction.
type Store struct {
	db     *Database
	q      DBTX
	inTx   bool
	logger *slog.Logger
}

// NewStore returns a Store that runs queries directly on the pool.
func NewStore(db *Database, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		q:      db.pool,
		logger: logger.With(slog.String("repository", "store")),
	}
}

var _ ports.Store = (*Store)(nil)

// WithinTx runs fn inside a transaction. Nested calls reuse the outer
// transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(tx ports.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.Transaction(ctx, func(tx pgx.Tx) error {
		return fn(&Store{db: s.db, q: tx, inTx: true, logger: s.logger})
	})
}

func (s *Store) Catalog() ports.CatalogRepository {
	return &catalogRepository{q: s.q}
}

func (s *Store) Medicines() ports.MedicineRepository {
	return &medicineRepository{q: s.q}
}

func (s *Store) Stock() ports.StockRepository {
	return &stockRepository{q: s.q}
}

func (s *Store) Batches() ports.BatchRepository {
	return &batchRepository{q: s.q}
}

func (s *Store) Purchases() ports.PurchaseRepository {
	return &purchaseRepository{q: s.q}
}

func (s *Store) Sales() ports.SaleRepository {
	return &saleRepository{q: s.q}
}

func (s *Store) Transactions() ports.TransactionRepository {
	return &transactionRepository{q: s.q}
}

func (s *Store) Users() ports.UserRepository {
	return &userRepository{q: s.q}
}

func (s *Store) AuditLogs() ports.AuditLogRepository {
	return &auditLogRepository{q: s.q}
}

func (s *Store) Dashboard() ports.DashboardRepository {
	return &dashboardRepository{q: s.q}
}

func (s *Store) RevokedTokens() ports.RevokedTokenRepository {
	return &revokedTokenRepository{q: s.q}
}
