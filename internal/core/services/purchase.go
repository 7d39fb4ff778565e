// internal/core/services/purchase.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// PurchaseService records incoming stock and keeps the ledger in step with
// every purchase write.
type PurchaseService struct {
	store  ports.Store
	forget invalidator
	logger *slog.Logger
}

var _ ports.PurchaseService = (*PurchaseService)(nil)

// NewPurchaseService creates a new purchase service
func NewPurchaseService(store ports.Store, cache ports.CacheRepository, logger *slog.Logger) *PurchaseService {
	logger = logger.With(slog.String("service", "purchase"))
	return &PurchaseService{
		store:  store,
		forget: invalidator{cache: cache, logger: logger},
		logger: logger,
	}
}

// Create inserts the purchase, adds its quantity to the ledger and emits a
// PURCHASE transaction, all in one unit of work.
func (s *PurchaseService) Create(ctx context.Context, in domain.PurchaseInput) (*domain.Purchase, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Purchase
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		medicine, err := tx.Medicines().GetByID(ctx, in.MedicineID)
		if err != nil {
			return err
		}
		if _, err := tx.Batches().GetByID(ctx, in.BatchID); err != nil {
			return err
		}
		if _, err := tx.Users().GetByID(ctx, in.UserID); err != nil {
			return err
		}
		if in.SupplierID != nil {
			if _, err := tx.Catalog().GetByID(ctx, domain.CatalogSupplier, *in.SupplierID); err != nil {
				return err
			}
		}

		p := &domain.Purchase{
			MedicineID:  in.MedicineID,
			BatchID:     in.BatchID,
			SupplierID:  in.SupplierID,
			UserID:      in.UserID,
			Quantity:    in.Quantity,
			CostPerUnit: in.CostPerUnit,
		}
		if err := tx.Purchases().Create(ctx, p); err != nil {
			return err
		}

		if _, err := applyDelta(ctx, tx, p.MedicineID, p.Quantity); err != nil {
			return err
		}

		note := fmt.Sprintf("Purchase of %s x%d", medicine.Name, p.Quantity)
		if _, err := recordTransaction(ctx, tx, domain.TransactionPurchase, p.TotalCost(), note, &p.ID, nil); err != nil {
			return fmt.Errorf("failed to record purchase transaction: %w", err)
		}

		created, err = tx.Purchases().GetByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.forget.stock(ctx, created.MedicineID)
	s.forget.batchSummary(ctx, created.BatchID)

	s.logger.InfoContext(ctx, "purchase created",
		slog.Int64("purchase_id", created.ID),
		slog.Int64("medicine_id", created.MedicineID),
		slog.Int64("batch_id", created.BatchID),
		slog.Int64("quantity", created.Quantity))

	return created, nil
}

func (s *PurchaseService) Get(ctx context.Context, id int64) (*domain.Purchase, error) {
	return s.store.Purchases().GetByID(ctx, id)
}

func (s *PurchaseService) List(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	purchases, err := s.store.Purchases().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// Update applies upd and reconciles the ledger. When the medicine changes
// the old medicine loses the old quantity and the new one gains the new
// quantity; otherwise only the difference is applied.
func (s *PurchaseService) Update(ctx context.Context, id int64, upd domain.PurchaseUpdate) (*domain.Purchase, error) {
	if err := upd.Validate(); err != nil {
		return nil, err
	}

	var before, after *domain.Purchase
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		old, err := tx.Purchases().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before = old
		next := upd.Apply(*old)
		if err := domain.ValidateAmount("quantity", next.TotalCost()); err != nil {
			return err
		}

		if next.MedicineID != old.MedicineID {
			if _, err := tx.Medicines().GetByID(ctx, next.MedicineID); err != nil {
				return err
			}
		}
		if next.BatchID != old.BatchID {
			if _, err := tx.Batches().GetByID(ctx, next.BatchID); err != nil {
				return err
			}
		}
		if upd.SupplierID != nil {
			if _, err := tx.Catalog().GetByID(ctx, domain.CatalogSupplier, *upd.SupplierID); err != nil {
				return err
			}
		}

		var moves []ledgerMove
		if next.MedicineID != old.MedicineID {
			moves = append(moves,
				ledgerMove{medicineID: old.MedicineID, delta: -old.Quantity},
				ledgerMove{medicineID: next.MedicineID, delta: next.Quantity})
		} else if diff := next.Quantity - old.Quantity; diff != 0 {
			moves = append(moves, ledgerMove{medicineID: next.MedicineID, delta: diff})
		}
		if err := applyDeltas(ctx, tx, moves...); err != nil {
			return err
		}

		if err := tx.Purchases().Update(ctx, &next); err != nil {
			return err
		}

		after, err = tx.Purchases().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.forget.stock(ctx, before.MedicineID, after.MedicineID)
	s.forget.batchSummary(ctx, before.BatchID, after.BatchID)

	s.logger.InfoContext(ctx, "purchase updated",
		slog.Int64("purchase_id", id),
		slog.Int64("old_quantity", before.Quantity),
		slog.Int64("new_quantity", after.Quantity))

	return after, nil
}

// Delete removes the purchase and takes its quantity back out of the
// ledger. It fails with InsufficientStock when part of it was already sold.
func (s *PurchaseService) Delete(ctx context.Context, id int64) error {
	var removed *domain.Purchase
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		p, err := tx.Purchases().GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		removed = p

		if _, err := applyDelta(ctx, tx, p.MedicineID, -p.Quantity); err != nil {
			return err
		}
		return tx.Purchases().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.forget.stock(ctx, removed.MedicineID)
	s.forget.batchSummary(ctx, removed.BatchID)

	s.logger.InfoContext(ctx, "purchase deleted",
		slog.Int64("purchase_id", id),
		slog.Int64("medicine_id", removed.MedicineID),
		slog.Int64("quantity", removed.Quantity))

	return nil
}
