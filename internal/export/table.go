// Package export renders report tables as CSV, PDF and XLSX files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// GrandTotalLabel heads the totals row of PDF and XLSX output.
const GrandTotalLabel = "Grand Total"

// Column describes one table column. Amount columns hold decimal strings and
// feed the grand total.
type Column struct {
	Key      string
	Label    string
	IsAmount bool
}

// Row holds one cell per column, in column order.
type Row []string

// Table is a titled grid ready for export.
type Table struct {
	Title   string
	Columns []Column
	Rows    []Row
}

// Format is an output file type.
type Format string

const (
	CSV  Format = "csv"
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
)

// Formats lists the supported formats.
var Formats = []Format{CSV, PDF, XLSX}

// ParseFormat matches a format name case-insensitively.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(strings.TrimSpace(s), string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q (want csv, pdf or xlsx)", s)
}

// Write renders t in format f.
func Write(w io.Writer, f Format, t Table, opts Options) error {
	switch f {
	case CSV:
		return WriteCSV(w, t)
	case PDF:
		return WritePDF(w, t, opts)
	case XLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// AmountColumn returns the index of the first amount column.
func (t Table) AmountColumn() (int, bool) {
	for i, c := range t.Columns {
		if c.IsAmount {
			return i, true
		}
	}
	return 0, false
}

// GrandTotal sums the first amount column. Cells that do not parse count as
// zero. ok is false when the table has no amount column.
func GrandTotal(t Table) (total decimal.Decimal, ok bool) {
	idx, ok := t.AmountColumn()
	if !ok {
		return decimal.Zero, false
	}
	total = decimal.Zero
	for _, r := range t.Rows {
		if idx >= len(r) {
			continue
		}
		if d, err := decimal.NewFromString(r[idx]); err == nil {
			total = total.Add(d)
		}
	}
	return total, true
}

func (r Row) cell(i int) string {
	if i < len(r) {
		return r[i]
	}
	return ""
}
