// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/pharmacy-be/internal/adapters/spreadsheet"
)

var medicineNames = []string{
	"Paracetamol",
	"Amoxicillin",
	"Ibuprofen",
	"Cetirizine",
	"Metformin",
	"Omeprazole",
	"Atorvastatin",
	"Salbutamol",
	"Loratadine",
	"Azithromycin",
}

// createMedicineWorkbook builds a medicines workbook with numRows data rows.
func createMedicineWorkbook(numRows int) ([]byte, error) {
	return buildWorkbook(spreadsheet.MedicineColumns, numRows, func(i int) []string {
		return []string{
			fmt.Sprintf("%s %d", medicineNames[i%len(medicineNames)], i),
			"Acme Pharma",
			"tablet",
			"General",
			fmt.Sprintf("%.2f", 1.5+float64(i%20)),
			strconv.Itoa(10 + i%90),
			"500mg",
			"",
		}
	})
}

// createStockWorkbook builds a stock workbook with numRows data rows.
func createStockWorkbook(numRows int) ([]byte, error) {
	return buildWorkbook(spreadsheet.StockColumns, numRows, func(i int) []string {
		return []string{
			fmt.Sprintf("%s %d", medicineNames[i%len(medicineNames)], i),
			"Acme Pharma",
			strconv.Itoa(1 + i%5),
			"Central Supply",
			strconv.Itoa(5 + i%50),
			fmt.Sprintf("%.2f", 0.75+float64(i%10)),
		}
	})
}

func buildWorkbook(header []string, numRows int, row func(i int) []string) ([]byte, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Sheet1")
	if err != nil {
		return nil, err
	}

	addRow := func(values []string) {
		r := sheet.AddRow()
		for _, v := range values {
			r.AddCell().Value = v
		}
	}
	addRow(header)
	for i := 0; i < numRows; i++ {
		addRow(row(i))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
