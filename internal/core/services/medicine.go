// internal/core/services/medicine.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

const (
	defaultMedicineLimit = 50
	maxMedicineLimit     = 200
)

// MedicineService manages the medicine registry.
type MedicineService struct {
	store   ports.Store
	catalog ports.CatalogService
	forget  invalidator
	logger  *slog.Logger
}

var _ ports.MedicineService = (*MedicineService)(nil)

// NewMedicineService creates a new medicine service
func NewMedicineService(store ports.Store, catalog ports.CatalogService, cache ports.CacheRepository, logger *slog.Logger) *MedicineService {
	logger = logger.With(slog.String("service", "medicine"))
	return &MedicineService{
		store:   store,
		catalog: catalog,
		forget:  invalidator{cache: cache, logger: logger},
		logger:  logger,
	}
}

type resolvedRefs struct {
	manufacturer, unit, category *domain.CatalogEntry
}

// resolve runs outside the medicine transaction: a failed upsert would
// otherwise abort it.
func (s *MedicineService) resolve(ctx context.Context, in domain.MedicineInput) (*resolvedRefs, error) {
	var refs resolvedRefs
	var err error
	if refs.manufacturer, err = s.catalog.FindOrCreate(ctx, domain.CatalogManufacturer, in.Manufacturer); err != nil {
		return nil, err
	}
	if refs.unit, err = s.catalog.FindOrCreate(ctx, domain.CatalogUnit, in.Unit); err != nil {
		return nil, err
	}
	if refs.category, err = s.catalog.FindOrCreate(ctx, domain.CatalogCategory, in.Category); err != nil {
		return nil, err
	}
	return &refs, nil
}

// Create registers a medicine and, when InitialQuantity is set, its ledger
// row in the same transaction.
func (s *MedicineService) Create(ctx context.Context, in domain.MedicineInput) (*domain.Medicine, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	refs, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	var created *domain.Medicine
	err = s.store.WithinTx(ctx, func(tx ports.Store) error {
		m := &domain.Medicine{
			Name:           in.Name,
			ManufacturerID: refs.manufacturer.ID,
			UnitID:         refs.unit.ID,
			CategoryID:     refs.category.ID,
			SellPrice:      in.SellPrice,
			Dosage:         in.Dosage,
			Description:    in.Description,
		}
		if err := tx.Medicines().Create(ctx, m); err != nil {
			return err
		}

		if in.InitialQuantity != nil {
			price := decimal.NullDecimal{Decimal: in.SellPrice, Valid: true}
			if _, err := tx.Stock().Upsert(ctx, m.ID, *in.InitialQuantity, price); err != nil {
				return fmt.Errorf("failed to create initial stock: %w", err)
			}
		}

		var err error
		created, err = tx.Medicines().GetByID(ctx, m.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "medicine created",
		slog.Int64("medicine_id", created.ID),
		slog.String("name", created.Name),
		slog.String("manufacturer", created.ManufacturerName))

	return created, nil
}

func (s *MedicineService) Get(ctx context.Context, id int64) (*domain.Medicine, error) {
	return s.store.Medicines().GetByID(ctx, id)
}

func (s *MedicineService) List(ctx context.Context, search string, limit, offset int) ([]domain.Medicine, error) {
	if limit <= 0 {
		limit = defaultMedicineLimit
	}
	if limit > maxMedicineLimit {
		limit = maxMedicineLimit
	}
	if offset < 0 {
		offset = 0
	}
	medicines, err := s.store.Medicines().List(ctx, search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}

// Update replaces the registry fields of a medicine. InitialQuantity is
// ignored; the ledger is changed through stock adjustments only.
func (s *MedicineService) Update(ctx context.Context, id int64, in domain.MedicineInput) (*domain.Medicine, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.store.Medicines().GetByID(ctx, id); err != nil {
		return nil, err
	}
	refs, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	m := &domain.Medicine{
		ID:             id,
		Name:           in.Name,
		ManufacturerID: refs.manufacturer.ID,
		UnitID:         refs.unit.ID,
		CategoryID:     refs.category.ID,
		SellPrice:      in.SellPrice,
		Dosage:         in.Dosage,
		Description:    in.Description,
	}
	if err := s.store.Medicines().Update(ctx, m); err != nil {
		return nil, err
	}

	s.forget.stock(ctx, id)
	s.forget.allBatchSummaries(ctx)
	s.logger.InfoContext(ctx, "medicine updated", slog.Int64("medicine_id", id))

	return s.store.Medicines().GetByID(ctx, id)
}

// Delete removes a medicine that no purchase or sale references.
func (s *MedicineService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Medicines().Delete(ctx, id); err != nil {
		return err
	}
	s.forget.stock(ctx, id)
	s.logger.InfoContext(ctx, "medicine deleted", slog.Int64("medicine_id", id))
	return nil
}
