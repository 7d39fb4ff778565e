// internal/core/services/sale.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// SaleService records outgoing stock.
type SaleService struct {
	store  ports.Store
	forget invalidator
	logger *slog.Logger
}

var _ ports.SaleService = (*SaleService)(nil)

// NewSaleService creates a new sale service
func NewSaleService(store ports.Store, cache ports.CacheRepository, logger *slog.Logger) *SaleService {
	logger = logger.With(slog.String("service", "sale"))
	return &SaleService{
		store:  store,
		forget: invalidator{cache: cache, logger: logger},
		logger: logger,
	}
}

// Create sells in.Quantity units. The ledger row stays locked from the
// availability check until commit, so concurrent sales of the last units
// cannot both succeed.
func (s *SaleService) Create(ctx context.Context, in domain.SaleInput) (*domain.Sale, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var sale *domain.Sale
	var ref string
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		medicine, err := tx.Medicines().GetByID(ctx, in.MedicineID)
		if err != nil {
			return err
		}
		total := domain.ComputeTotalPrice(medicine.SellPrice, in.Quantity, in.Price)
		if err := domain.ValidateAmount("quantity", total); err != nil {
			return err
		}

		if _, err := applyDelta(ctx, tx, in.MedicineID, -in.Quantity); err != nil {
			return err
		}

		sale = &domain.Sale{
			MedicineID:   in.MedicineID,
			MedicineName: medicine.Name,
			UserID:       in.UserID,
			Quantity:     in.Quantity,
			TotalPrice:   total,
		}
		if err := tx.Sales().Create(ctx, sale); err != nil {
			return err
		}

		note := fmt.Sprintf("Sale of %s x%d", medicine.Name, sale.Quantity)
		record, err := recordTransaction(ctx, tx, domain.TransactionSale, sale.TotalPrice, note, nil, &sale.ID)
		if err != nil {
			return fmt.Errorf("failed to record sale transaction: %w", err)
		}
		ref = record.ReferenceNumber
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.forget.stock(ctx, sale.MedicineID)

	s.logger.InfoContext(ctx, "sale created",
		slog.Int64("sale_id", sale.ID),
		slog.Int64("medicine_id", sale.MedicineID),
		slog.Int64("quantity", sale.Quantity),
		slog.String("reference", ref))

	return sale, nil
}

// Get returns a sale owned by caller. Sales of other users look missing
// unless the caller is an admin.
func (s *SaleService) Get(ctx context.Context, caller domain.Identity, id int64) (*domain.Sale, error) {
	sale, err := s.store.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && sale.UserID != caller.ID {
		return nil, domain.NewNotFound("sale", id)
	}
	return sale, nil
}

func (s *SaleService) List(ctx context.Context, caller domain.Identity, filter domain.SaleFilter) ([]domain.Sale, error) {
	if !caller.IsAdmin() {
		filter.UserID = caller.ID
	}
	sales, err := s.store.Sales().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}
