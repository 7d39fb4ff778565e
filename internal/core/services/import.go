// internal/core/services/import.go
package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// ImportService replays spreadsheet rows through the medicine and purchase
// services. Every row is committed or rolled back on its own, so one bad
// row never affects its neighbours.
type ImportService struct {
	store     ports.Store
	catalog   ports.CatalogService
	medicines ports.MedicineService
	purchases ports.PurchaseService
	sheets    ports.Spreadsheet
	logger    *slog.Logger
}

var _ ports.ImportService = (*ImportService)(nil)

// NewImportService creates a new import service
func NewImportService(
	store ports.Store,
	catalog ports.CatalogService,
	medicines ports.MedicineService,
	purchases ports.PurchaseService,
	sheets ports.Spreadsheet,
	logger *slog.Logger,
) *ImportService {
	return &ImportService{
		store:     store,
		catalog:   catalog,
		medicines: medicines,
		purchases: purchases,
		sheets:    sheets,
		logger:    logger.With(slog.String("service", "import")),
	}
}

func newReport() *domain.ImportReport {
	return &domain.ImportReport{Errors: []domain.RowError{}}
}

// Run parses data as the template for kind and imports every row.
func (s *ImportService) Run(ctx context.Context, kind domain.ImportKind, userID int64, data []byte) (*domain.ImportReport, error) {
	switch kind {
	case domain.ImportMedicines:
		rows, err := s.sheets.ParseMedicineRows(data)
		if err != nil {
			return nil, err
		}
		return s.ImportMedicines(ctx, rows), nil
	case domain.ImportStock:
		rows, err := s.sheets.ParseStockRows(data)
		if err != nil {
			return nil, err
		}
		return s.ImportStock(ctx, userID, rows), nil
	}
	return nil, domain.NewValidation("kind", "must be medicines or stock")
}

func (s *ImportService) ImportMedicines(ctx context.Context, rows []domain.MedicineRow) *domain.ImportReport {
	report := newReport()
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			report.Fail(row.Row, err)
			continue
		}
		if err := s.importMedicine(ctx, row); err != nil {
			report.Fail(row.Row, s.rowError(ctx, row.Row, err))
			continue
		}
		report.SuccessCount++
	}

	s.logger.InfoContext(ctx, "medicine import finished",
		slog.Int("rows", len(rows)),
		slog.Int("success", report.SuccessCount),
		slog.Int("errors", report.ErrorCount))
	return report
}

func (s *ImportService) importMedicine(ctx context.Context, row domain.MedicineRow) error {
	price, err := domain.ParseMoney("sell_price", strings.TrimSpace(row.SellPrice))
	if err != nil {
		return err
	}

	in := domain.MedicineInput{
		Name:         row.Name,
		Manufacturer: domain.ParseNameOrID(row.Manufacturer),
		Unit:         domain.ParseNameOrID(row.Unit),
		Category:     domain.ParseNameOrID(row.Category),
		SellPrice:    price,
		Dosage:       strings.TrimSpace(row.Dosage),
		Description:  strings.TrimSpace(row.Description),
	}
	if q := strings.TrimSpace(row.Quantity); q != "" {
		qty, err := domain.ParseQuantity("quantity", q)
		if err != nil {
			return err
		}
		in.InitialQuantity = &qty
	}

	_, err = s.medicines.Create(ctx, in)
	return err
}

func (s *ImportService) ImportStock(ctx context.Context, userID int64, rows []domain.StockRow) *domain.ImportReport {
	report := newReport()
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			report.Fail(row.Row, err)
			continue
		}
		if err := s.importStock(ctx, userID, row); err != nil {
			report.Fail(row.Row, s.rowError(ctx, row.Row, err))
			continue
		}
		report.SuccessCount++
	}

	s.logger.InfoContext(ctx, "stock import finished",
		slog.Int("rows", len(rows)),
		slog.Int("success", report.SuccessCount),
		slog.Int("errors", report.ErrorCount))
	return report
}

func (s *ImportService) importStock(ctx context.Context, userID int64, row domain.StockRow) error {
	medicineID, err := s.resolveMedicine(ctx, row)
	if err != nil {
		return err
	}

	batchID, err := domain.ParseQuantity("batch_id", strings.TrimSpace(row.BatchID))
	if err != nil {
		return err
	}
	qty, err := domain.ParseQuantity("quantity", strings.TrimSpace(row.Quantity))
	if err != nil {
		return err
	}
	cost, err := domain.ParseMoney("cost_per_unit", strings.TrimSpace(row.CostPerUnit))
	if err != nil {
		return err
	}

	in := domain.PurchaseInput{
		MedicineID:  medicineID,
		BatchID:     batchID,
		UserID:      userID,
		Quantity:    qty,
		CostPerUnit: cost,
	}
	if token := domain.ParseNameOrID(row.Supplier); !token.IsZero() {
		supplier, err := s.catalog.FindOrCreate(ctx, domain.CatalogSupplier, token)
		if err != nil {
			return err
		}
		in.SupplierID = &supplier.ID
	}

	_, err = s.purchases.Create(ctx, in)
	return err
}

// resolveMedicine accepts a medicine id, or a name qualified by its
// manufacturer. Unknown manufacturers are not created.
func (s *ImportService) resolveMedicine(ctx context.Context, row domain.StockRow) (int64, error) {
	token := domain.ParseNameOrID(row.Medicine)
	if token.IsZero() {
		return 0, domain.NewValidation("medicine", "is required")
	}
	if token.ID > 0 {
		m, err := s.store.Medicines().GetByID(ctx, token.ID)
		if err != nil {
			return 0, err
		}
		return m.ID, nil
	}

	mfr := domain.ParseNameOrID(row.Manufacturer)
	if mfr.IsZero() {
		return 0, domain.NewValidation("manufacturer", "is required when medicine is given by name")
	}

	var entry *domain.CatalogEntry
	var err error
	if mfr.ID > 0 {
		entry, err = s.store.Catalog().GetByID(ctx, domain.CatalogManufacturer, mfr.ID)
	} else {
		entry, err = s.store.Catalog().GetByName(ctx, domain.CatalogManufacturer, mfr.Name)
	}
	if err != nil {
		return 0, err
	}

	m, err := s.store.Medicines().FindByNameAndManufacturer(ctx, token.Name, entry.ID)
	if err != nil {
		return 0, err
	}
	return m.ID, nil
}

// rowError keeps domain messages and hides driver details.
func (s *ImportService) rowError(ctx context.Context, row int, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrInsufficientStock):
		return err
	}
	s.logger.ErrorContext(ctx, "import row failed",
		slog.Int("row", row),
		slog.String("error", err.Error()))
	return errors.New("internal error")
}
