package export

import (
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// Options carries the document furniture of a PDF report.
type Options struct {
	Business       string // footer line, e.g. "FinAd Expense Management"
	CurrencySymbol string // prefixed to the grand total
	Now            time.Time
}

var (
	headerText = props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 192, Green: 85, Blue: 0}}
	cellText   = props.Text{Size: 9}
	amountText = props.Text{Size: 9, Align: align.Right}
)

// WritePDF renders t as a print-ready report: title, generated-on line,
// header, rows, and a grand total row when an amount column exists.
func WritePDF(w io.Writer, t Table, opts Options) error {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	cols := len(t.Columns)
	if cols == 0 {
		return fmt.Errorf("table %q has no columns", t.Title)
	}

	cfg := config.NewBuilder().
		WithMaxGridSize(cols).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()
	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(cols, t.Title, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Color: &props.Color{Red: 255, Green: 140, Blue: 56},
		}),
	)
	generated := "Generated on " + opts.Now.Format("2 January 2006")
	if opts.Business != "" {
		generated += "  |  " + opts.Business
	}
	m.AddRow(10, text.NewCol(cols, generated, props.Text{Size: 9}))

	m.AddRow(8, rowCols(t.Columns, func(i int, c Column) core.Col {
		return text.NewCol(1, c.Label, headerText)
	})...)
	for _, r := range t.Rows {
		m.AddRow(7, rowCols(t.Columns, func(i int, c Column) core.Col {
			if c.IsAmount {
				return text.NewCol(1, r.cell(i), amountText)
			}
			return text.NewCol(1, r.cell(i), cellText)
		})...)
	}

	if total, ok := GrandTotal(t); ok {
		idx, _ := t.AmountColumn()
		bold := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
		row := make([]core.Col, 0, cols)
		if idx > 0 {
			row = append(row, text.NewCol(idx, GrandTotalLabel, bold))
		}
		row = append(row, text.NewCol(1, opts.CurrencySymbol+total.StringFixed(2), bold))
		if rest := cols - idx - 1; rest > 0 {
			row = append(row, col.New(rest))
		}
		m.AddRow(9, row...)
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("generating PDF: %w", err)
	}
	_, err = w.Write(doc.GetBytes())
	return err
}

func rowCols(columns []Column, build func(int, Column) core.Col) []core.Col {
	out := make([]core.Col, len(columns))
	for i, c := range columns {
		out[i] = build(i, c)
	}
	return out
}
