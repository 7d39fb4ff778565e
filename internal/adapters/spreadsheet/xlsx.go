// internal/adapters/spreadsheet/xlsx.go
package spreadsheet

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/core/domain"
	"github.com/ammerola/pharmacy-be/internal/core/ports"
)

// Column layouts of the import templates. Row 1 holds the headers.
var (
	MedicineColumns = []string{
		"Name", "Manufacturer", "Unit", "Category", "Sell Price", "Quantity", "Dosage", "Description",
	}
	StockColumns = []string{
		"Medicine", "Manufacturer", "Batch ID", "Supplier", "Quantity", "Cost Per Unit",
	}
	stockReportColumns = []string{
		"Medicine ID", "Medicine", "Quantity", "Price Per Unit", "Updated At",
	}
)

// XLSX implements ports.Spreadsheet with tealeg/xlsx.
type XLSX struct{}

var _ ports.Spreadsheet = XLSX{}

// New returns the xlsx codec.
func New() XLSX { return XLSX{} }

// ParseMedicineRows reads the first sheet of a medicines template.
func (XLSX) ParseMedicineRows(data []byte) ([]domain.MedicineRow, error) {
	var rows []domain.MedicineRow
	err := forEachDataRow(data, MedicineColumns, func(n int, cells []string) {
		rows = append(rows, domain.MedicineRow{
			Row:          n,
			Name:         cells[0],
			Manufacturer: cells[1],
			Unit:         cells[2],
			Category:     cells[3],
			SellPrice:    cells[4],
			Quantity:     cells[5],
			Dosage:       cells[6],
			Description:  cells[7],
		})
	})
	return rows, err
}

// ParseStockRows reads the first sheet of a stock template.
func (XLSX) ParseStockRows(data []byte) ([]domain.StockRow, error) {
	var rows []domain.StockRow
	err := forEachDataRow(data, StockColumns, func(n int, cells []string) {
		rows = append(rows, domain.StockRow{
			Row:          n,
			Medicine:     cells[0],
			Manufacturer: cells[1],
			BatchID:      cells[2],
			Supplier:     cells[3],
			Quantity:     cells[4],
			CostPerUnit:  cells[5],
		})
	})
	return rows, err
}

// forEachDataRow checks the header row against columns and calls fn with
// the 1-based row number and trimmed cell values of every non-blank row.
func forEachDataRow(data []byte, columns []string, fn func(row int, cells []string)) error {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return domain.NewValidation("file", "is not a valid xlsx workbook")
	}
	if len(file.Sheets) == 0 {
		return domain.NewValidation("file", "workbook has no sheets")
	}
	sheet := file.Sheets[0]

	headerSeen := false
	return sheet.ForEachRow(func(r *xlsx.Row) error {
		cells := make([]string, len(columns))
		blank := true
		for i := range columns {
			cells[i] = strings.TrimSpace(r.GetCell(i).String())
			if cells[i] != "" {
				blank = false
			}
		}

		if !headerSeen {
			headerSeen = true
			for i, want := range columns {
				if !strings.EqualFold(cells[i], want) {
					return domain.NewValidation("header",
						fmt.Sprintf("column %d must be %q, got %q", i+1, want, cells[i]))
				}
			}
			return nil
		}
		if blank {
			return nil
		}

		fn(r.GetCoordinate()+1, cells)
		return nil
	})
}

// Template returns an empty workbook with the header row for kind.
func (XLSX) Template(kind domain.ImportKind) ([]byte, error) {
	switch kind {
	case domain.ImportMedicines:
		return writeWorkbook("Medicines", MedicineColumns, [][]string{
			{"Paracetamol 500mg", "Square Pharmaceuticals", "Tablet", "Analgesic", "1.50", "100", "500mg", "Pain relief"},
		})
	case domain.ImportStock:
		return writeWorkbook("Stock", StockColumns, [][]string{
			{"Paracetamol 500mg", "Square Pharmaceuticals", "1", "City Medical Supplies", "50", "1.10"},
		})
	}
	return nil, domain.NewValidation("kind", "must be medicines or stock")
}

// StockReport renders the ledger as a workbook.
func (XLSX) StockReport(entries []domain.StockEntry) ([]byte, error) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		price := ""
		if e.PricePerUnit.Valid {
			price = e.PricePerUnit.Decimal.StringFixed(2)
		}
		rows = append(rows, []string{
			strconv.FormatInt(e.MedicineID, 10),
			e.MedicineName,
			strconv.FormatInt(e.Quantity, 10),
			price,
			e.UpdatedAt.Format(time.RFC3339),
		})
	}
	return writeWorkbook("Stock", stockReportColumns, rows)
}

func writeWorkbook(sheetName string, headers []string, rows [][]string) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range headers {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
	}

	for _, values := range rows {
		row := sheet.AddRow()
		for _, v := range values {
			row.AddCell().Value = v
		}
	}

	for i := range headers {
		sheet.SetColWidth(i+1, i+1, 20)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
