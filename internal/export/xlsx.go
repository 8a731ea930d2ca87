package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX renders t as a single-sheet workbook. Amount cells are numeric
// and a grand total row follows the data when an amount column exists.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheet != defaultSheet {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("removing default sheet: %w", err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	for i, c := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Label); err != nil {
			return err
		}
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for i, c := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(c, row.cell(i))); err != nil {
				return err
			}
		}
	}

	if total, ok := GrandTotal(t); ok {
		idx, _ := t.AmountColumn()
		line := len(t.Rows) + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, line)
		totalCell, _ := excelize.CoordinatesToCellName(idx+1, line)
		if idx > 0 {
			if err := f.SetCellValue(sheet, labelCell, GrandTotalLabel); err != nil {
				return err
			}
		}
		if err := f.SetCellValue(sheet, totalCell, total.InexactFloat64()); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelCell, totalCell, bold); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cellValue(c Column, s string) any {
	if !c.IsAmount {
		return s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return d.InexactFloat64()
}

// sheetName turns a title into a valid worksheet name.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return defaultSheet
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}
