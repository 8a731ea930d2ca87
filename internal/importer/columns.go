package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/model"
)

type field int

const (
	fieldDate field = iota
	fieldDepartment
	fieldDescription
	fieldAmount
	fieldStatus
	fieldUploader
	fieldInvoice
)

// headerParser maps header names to bill fields, so column order and extra
// columns do not matter.
type headerParser struct {
	format   string
	aliases  map[string]field
	required []field
}

// ExpenseReportParser reads the layout of the expenses report export.
func ExpenseReportParser() Parser {
	return &headerParser{
		format: "finad",
		aliases: map[string]field{
			"date":        fieldDate,
			"department":  fieldDepartment,
			"description": fieldDescription,
			"amount":      fieldAmount,
			"status":      fieldStatus,
			"uploaded by": fieldUploader,
			"invoice":     fieldInvoice,
		},
		required: []field{fieldDate, fieldDepartment, fieldDescription, fieldAmount},
	}
}

// DepartmentExportParser reads the per-department bill export ("Bill ID,
// Date, Description, Amount (₹), Status"). The department comes from the
// caller.
func DepartmentExportParser() Parser {
	return &headerParser{
		format: "department",
		aliases: map[string]field{
			"date":        fieldDate,
			"description": fieldDescription,
			"amount (₹)":  fieldAmount,
			"amount":      fieldAmount,
			"status":      fieldStatus,
		},
		required: []field{fieldDate, fieldDescription, fieldAmount},
	}
}

func (p *headerParser) Format() string { return p.format }

func (p *headerParser) Parse(r io.Reader, department string) ([]expense.BillInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s CSV: %w", p.format, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols := make(map[field]int)
	for i, h := range records[0] {
		if f, ok := p.aliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, seen := cols[f]; !seen {
				cols[f] = i
			}
		}
	}
	for _, f := range p.required {
		if _, ok := cols[f]; !ok {
			return nil, fmt.Errorf("%s CSV: missing column for %s", p.format, f)
		}
	}
	if _, ok := cols[fieldDepartment]; !ok && department == "" {
		return nil, fmt.Errorf("%s CSV has no department column; a department is required", p.format)
	}

	var bills []expense.BillInput
	for i, rec := range records[1:] {
		b, err := p.row(rec, cols, department)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		bills = append(bills, b)
	}
	return bills, nil
}

func (p *headerParser) row(rec []string, cols map[field]int, department string) (expense.BillInput, error) {
	get := func(f field) string {
		i, ok := cols[f]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	amount, err := parseAmount(get(fieldAmount))
	if err != nil {
		return expense.BillInput{}, err
	}
	b := expense.BillInput{
		Date:        get(fieldDate),
		Department:  department,
		Description: get(fieldDescription),
		Amount:      amount,
		Status:      model.BillStatus(get(fieldStatus)),
		Uploader:    get(fieldUploader),
		Invoice:     get(fieldInvoice),
	}
	if d := get(fieldDepartment); d != "" {
		b.Department = d
	}
	return b, nil
}

// parseAmount accepts "45000", "45,000.00" and "₹45,000".
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.NewReplacer(",", "", "₹", "", " ", "").Replace(s)
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return d, nil
}

func (f field) String() string {
	switch f {
	case fieldDate:
		return "date"
	case fieldDepartment:
		return "department"
	case fieldDescription:
		return "description"
	case fieldAmount:
		return "amount"
	case fieldStatus:
		return "status"
	case fieldUploader:
		return "uploader"
	case fieldInvoice:
		return "invoice"
	default:
		return "unknown"
	}
}
