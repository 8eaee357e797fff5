// Package xlsxexport renders the filings list as an Excel workbook.
package xlsxexport

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"nr6/internal/csvexport"
	"nr6/internal/domain"
	"nr6/internal/sanitize"
)

// SheetName is the single worksheet in the export.
const SheetName = "Filings"

// Columns extends the CSV columns with the derived withholding figures.
var Columns = append(append([]string{}, csvexport.Columns...), "Net", "Withholding (25% gross)", "Withholding (25% net)")

// Write renders filings into a workbook and writes it to w.
func Write(w io.Writer, filings []domain.Filing) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}

	for i, col := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return err
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(Columns))
	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}

	for r := range filings {
		row := filingRow(&filings[r])
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(SheetName, start, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", r+2, err)
		}
	}

	if len(filings) > 0 {
		last := len(filings) + 1
		if err := f.SetCellStyle(SheetName, "F2", fmt.Sprintf("%s%d", lastCol, last), moneyStyle); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "D", 28)

	return f.Write(w)
}

func filingRow(fl *domain.Filing) []any {
	return []any{
		fl.CreatedAt.Format("2006-01-02"),
		sanitize.Formula(fl.FullName),
		sanitize.Formula(fl.Email),
		sanitize.Formula(fl.PropertyAddress),
		string(fl.Status),
		fl.Gross,
		fl.ExpensesTotal,
		fl.EstimatedSavings,
		fl.Net,
		fl.WithholdingDefault,
		fl.WithholdingReduced,
	}
}

// BuildFilename returns the download name for an export taken at now.
func BuildFilename(now time.Time) string {
	return "nr6-filings-" + now.Format("2006-01-02") + ".xlsx"
}
