// internal/core/services/store_test.go
package services_test

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
	"github.com/ammerola/pharmacy-be/test/mocks"
)

// mockStore bundles a MockStore with one mock per repository. WithinTx runs
// fn against the same store, so expectations are shared inside and outside
// a unit of work.
type mockStore struct {
	store        *mocks.MockStore
	catalog      *mocks.MockCatalogRepository
	medicines    *mocks.MockMedicineRepository
	stock        *mocks.MockStockRepository
	batches      *mocks.MockBatchRepository
	purchases    *mocks.MockPurchaseRepository
	sales        *mocks.MockSaleRepository
	transactions *mocks.MockTransactionRepository
	users        *mocks.MockUserRepository
	revoked      *mocks.MockRevokedTokenRepository
	audit        *mocks.MockAuditLogRepository
	dashboard    *mocks.MockDashboardRepository
	cache        *mocks.MockCacheRepository
}

func newMockStore(t *testing.T) *mockStore {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := &mockStore{
		store:        mocks.NewMockStore(ctrl),
		catalog:      mocks.NewMockCatalogRepository(ctrl),
		medicines:    mocks.NewMockMedicineRepository(ctrl),
		stock:        mocks.NewMockStockRepository(ctrl),
		batches:      mocks.NewMockBatchRepository(ctrl),
		purchases:    mocks.NewMockPurchaseRepository(ctrl),
		sales:        mocks.NewMockSaleRepository(ctrl),
		transactions: mocks.NewMockTransactionRepository(ctrl),
		users:        mocks.NewMockUserRepository(ctrl),
		revoked:      mocks.NewMockRevokedTokenRepository(ctrl),
		audit:        mocks.NewMockAuditLogRepository(ctrl),
		dashboard:    mocks.NewMockDashboardRepository(ctrl),
		cache:        mocks.NewMockCacheRepository(ctrl),
	}

	m.store.EXPECT().Catalog().Return(m.catalog).AnyTimes()
	m.store.EXPECT().Medicines().Return(m.medicines).AnyTimes()
	m.store.EXPECT().Stock().Return(m.stock).AnyTimes()
	m.store.EXPECT().Batches().Return(m.batches).AnyTimes()
	m.store.EXPECT().Purchases().Return(m.purchases).AnyTimes()
	m.store.EXPECT().Sales().Return(m.sales).AnyTimes()
	m.store.EXPECT().Transactions().Return(m.transactions).AnyTimes()
	m.store.EXPECT().Users().Return(m.users).AnyTimes()
	m.store.EXPECT().RevokedTokens().Return(m.revoked).AnyTimes()
	m.store.EXPECT().AuditLogs().Return(m.audit).AnyTimes()
	m.store.EXPECT().Dashboard().Return(m.dashboard).AnyTimes()
	m.store.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(ports.Store) error) error {
			return fn(m.store)
		}).
		AnyTimes()

	// Invalidation is best effort and asserted only where it matters.
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().DeletePattern(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().
		SetWithTTL(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	return m
}

// expectLedger expects one locked read-modify-write of a ledger row.
func (m *mockStore) expectLedger(medicineID, current, next int64) {
	m.stock.EXPECT().
		Lock(gomock.Any(), medicineID).
		Return(&domain.StockEntry{MedicineID: medicineID, Quantity: current}, nil)
	m.stock.EXPECT().
		SetQuantity(gomock.Any(), medicineID, next).
		Return(&domain.StockEntry{MedicineID: medicineID, Quantity: next}, nil)
}

// expectTransaction expects the next counter value for t and the insert of
// the numbered record.
func (m *mockStore) expectTransaction(t *testing.T, typ domain.TransactionType, seq int64, check func(*domain.Transaction)) {
	t.Helper()
	m.transactions.EXPECT().NextSequence(gomock.Any(), typ).Return(seq, nil)
	m.transactions.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, tx *domain.Transaction) error {
			tx.ID = seq
			if check != nil {
				check(tx)
			}
			return nil
		})
}
