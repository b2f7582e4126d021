// Package export renders sales summaries as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/stwalsh4118/procurement/internal/repository"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the sales workbook.
const (
	SheetByYear   = "By Year"
	SheetByVendor = "By Vendor"
	SheetByCity   = "By City"
)

// numFmtAmount is the built-in "#,##0.00" format.
const numFmtAmount = 4

type sheet struct {
	name    string
	headers []string
	rows    [][]interface{}
	// amountCol is the 1-based column holding currency values.
	amountCol int
}

// SalesWorkbook builds an XLSX workbook with one sheet per summary. Amounts
// are written as numbers so they can be charted.
func SalesWorkbook(byYear []repository.YearTotal, byVendor []repository.VendorTotal, byCity []repository.CityTotal) (*bytes.Buffer, error) {
	sheets := []sheet{
		{name: SheetByYear, headers: []string{"Year", "Total Sales"}, amountCol: 2},
		{name: SheetByVendor, headers: []string{"Vendor Code", "Vendor", "Total Sales"}, amountCol: 3},
		{name: SheetByCity, headers: []string{"City", "Total Sales"}, amountCol: 2},
	}
	for _, t := range byYear {
		sheets[0].rows = append(sheets[0].rows, []interface{}{t.Year, t.Total.InexactFloat64()})
	}
	for _, t := range byVendor {
		sheets[1].rows = append(sheets[1].rows, []interface{}{string(t.VendorCode), t.VendorName, t.Total.InexactFloat64()})
	}
	for _, t := range byCity {
		sheets[2].rows = append(sheets[2].rows, []interface{}{t.CityName, t.Total.InexactFloat64()})
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return nil, fmt.Errorf("error creating amount style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return nil, fmt.Errorf("error naming sheet %q: %w", sh.name, err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("error creating sheet %q: %w", sh.name, err)
		}

		if err := writeSheet(f, sh, headerStyle, amountStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return &buf, nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle, amountStyle int) error {
	for col, header := range sh.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sh.name, cell, header); err != nil {
			return fmt.Errorf("error writing header %q: %w", header, err)
		}
	}
	if err := f.SetRowStyle(sh.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("error styling header of %q: %w", sh.name, err)
	}

	for r, values := range sh.rows {
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sh.name, cell, value); err != nil {
				return fmt.Errorf("error writing %s!%s: %w", sh.name, cell, err)
			}
		}
	}

	amountColName, err := excelize.ColumnNumberToName(sh.amountCol)
	if err != nil {
		return err
	}
	if len(sh.rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(sh.amountCol, 2)
		last, _ := excelize.CoordinatesToCellName(sh.amountCol, len(sh.rows)+1)
		if err := f.SetCellStyle(sh.name, first, last, amountStyle); err != nil {
			return fmt.Errorf("error styling amounts of %q: %w", sh.name, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(sh.headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sh.name, "A", lastCol, 18); err != nil {
		return err
	}
	return f.SetColWidth(sh.name, amountColName, amountColName, 16)
}
