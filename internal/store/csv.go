package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/model"
)

const dateFormat = "2006-01-02"

// Headers, one per file.
const (
	DepartmentsHeader = "label,name,color,retired"
	BudgetsHeader     = "kind,department,amount"
	LedgerHeader      = "id,date,department,type,amount,balance,remarks,reversal_of,reversed_by"
	ExpensesHeader    = "id,date,department,description,amount,status,uploader,invoice,ledger_entry_id"
	CompaniesHeader   = "id,name,address,phone,email,industry,financial_year,login_id,password_hash,accountant_name,accountant_email,accountant_phone,accountant_role,company_role"
	CountersHeader    = "key,value"
)

// Budget row kinds.
const (
	kindTotal      = "total"
	kindDepartment = "department"
)

const (
	deptFields  = 4
	colDLabel   = 0
	colDName    = 1
	colDColor   = 2
	colDRetired = 3
)

const (
	ledgerFields  = 9
	colLID        = 0
	colLDate      = 1
	colLDept      = 2
	colLType      = 3
	colLAmount    = 4
	colLBalance   = 5
	colLRemarks   = 6
	colLReversal  = 7
	colLReversedB = 8
)

const (
	expenseFields = 9
	colEID        = 0
	colEDate      = 1
	colEDept      = 2
	colEDesc      = 3
	colEAmount    = 4
	colEStatus    = 5
	colEUploader  = 6
	colEInvoice   = 7
	colELedgerID  = 8
)

const (
	companyFields   = 14
	colCID          = 0
	colCName        = 1
	colCAddress     = 2
	colCPhone       = 3
	colCEmail       = 4
	colCIndustry    = 5
	colCYear        = 6
	colCLogin       = 7
	colCHash        = 8
	colCAcctName    = 9
	colCAcctEmail   = 10
	colCAcctPhone   = 11
	colCAcctRole    = 12
	colCCompanyRole = 13
)

// readRows reads every record after the header row.
func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func writeRows(w io.Writer, header string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return d, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return t, nil
}

// MarshalDepartment converts a Department to a CSV row.
func MarshalDepartment(d model.Department) []string {
	row := make([]string, deptFields)
	row[colDLabel] = d.Label
	row[colDName] = d.Name
	row[colDColor] = d.Color
	row[colDRetired] = strconv.FormatBool(d.Retired)
	return row
}

// UnmarshalDepartment converts a CSV row to a Department.
func UnmarshalDepartment(record []string) (model.Department, error) {
	if len(record) != deptFields {
		return model.Department{}, fmt.Errorf("expected %d fields, got %d", deptFields, len(record))
	}
	retired, err := strconv.ParseBool(record[colDRetired])
	if err != nil {
		return model.Department{}, fmt.Errorf("parsing retired %q: %w", record[colDRetired], err)
	}
	return model.Department{
		Label:   record[colDLabel],
		Name:    record[colDName],
		Color:   record[colDColor],
		Retired: retired,
	}, nil
}

// MarshalLedgerEntry converts a LedgerEntry to a CSV row.
func MarshalLedgerEntry(e model.LedgerEntry) []string {
	row := make([]string, ledgerFields)
	row[colLID] = e.ID
	row[colLDate] = e.Date.Format(dateFormat)
	row[colLDept] = e.Department
	row[colLType] = string(e.Type)
	row[colLAmount] = model.FormatAmount(e.Amount)
	row[colLBalance] = model.FormatAmount(e.Balance)
	row[colLRemarks] = e.Remarks
	row[colLReversal] = e.ReversalOf
	row[colLReversedB] = e.ReversedBy
	return row
}

// UnmarshalLedgerEntry converts a CSV row to a LedgerEntry.
func UnmarshalLedgerEntry(record []string) (model.LedgerEntry, error) {
	if len(record) != ledgerFields {
		return model.LedgerEntry{}, fmt.Errorf("expected %d fields, got %d", ledgerFields, len(record))
	}
	date, err := parseDate(record[colLDate])
	if err != nil {
		return model.LedgerEntry{}, err
	}
	typ := model.EntryType(record[colLType])
	if typ != model.Debit && typ != model.Credit {
		return model.LedgerEntry{}, fmt.Errorf("unknown entry type %q", record[colLType])
	}
	amount, err := parseDecimal("amount", record[colLAmount])
	if err != nil {
		return model.LedgerEntry{}, err
	}
	balance, err := parseDecimal("balance", record[colLBalance])
	if err != nil {
		return model.LedgerEntry{}, err
	}
	return model.LedgerEntry{
		ID:         record[colLID],
		Date:       date,
		Department: record[colLDept],
		Type:       typ,
		Amount:     amount,
		Balance:    balance,
		Remarks:    record[colLRemarks],
		ReversalOf: record[colLReversal],
		ReversedBy: record[colLReversedB],
	}, nil
}

// MarshalExpense converts an Expense to a CSV row.
func MarshalExpense(e model.Expense) []string {
	row := make([]string, expenseFields)
	row[colEID] = e.ID
	row[colEDate] = e.Date.Format(dateFormat)
	row[colEDept] = e.Department
	row[colEDesc] = e.Description
	row[colEAmount] = model.FormatAmount(e.Amount)
	row[colEStatus] = string(e.Status)
	row[colEUploader] = e.Uploader
	row[colEInvoice] = e.Invoice
	row[colELedgerID] = e.LedgerEntryID
	return row
}

// UnmarshalExpense converts a CSV row to an Expense.
func UnmarshalExpense(record []string) (model.Expense, error) {
	if len(record) != expenseFields {
		return model.Expense{}, fmt.Errorf("expected %d fields, got %d", expenseFields, len(record))
	}
	date, err := parseDate(record[colEDate])
	if err != nil {
		return model.Expense{}, err
	}
	amount, err := parseDecimal("amount", record[colEAmount])
	if err != nil {
		return model.Expense{}, err
	}
	status := model.BillStatus(record[colEStatus])
	if !status.Valid() {
		return model.Expense{}, fmt.Errorf("unknown status %q", record[colEStatus])
	}
	return model.Expense{
		ID:            record[colEID],
		Date:          date,
		Department:    record[colEDept],
		Description:   record[colEDesc],
		Amount:        amount,
		Status:        status,
		Uploader:      record[colEUploader],
		Invoice:       record[colEInvoice],
		LedgerEntryID: record[colELedgerID],
	}, nil
}

// MarshalCompany converts a Company to a CSV row.
func MarshalCompany(c model.Company) []string {
	row := make([]string, companyFields)
	row[colCID] = c.ID
	row[colCName] = c.Name
	row[colCAddress] = c.Address
	row[colCPhone] = c.Phone
	row[colCEmail] = c.Email
	row[colCIndustry] = c.Industry
	row[colCYear] = c.FinancialYear
	row[colCLogin] = c.LoginID
	row[colCHash] = c.PasswordHash
	row[colCAcctName] = c.AccountantName
	row[colCAcctEmail] = c.AccountantEmail
	row[colCAcctPhone] = c.AccountantPhone
	row[colCAcctRole] = c.AccountantRole
	row[colCCompanyRole] = string(c.CompanyRole)
	return row
}

// UnmarshalCompany converts a CSV row to a Company.
func UnmarshalCompany(record []string) (model.Company, error) {
	if len(record) != companyFields {
		return model.Company{}, fmt.Errorf("expected %d fields, got %d", companyFields, len(record))
	}
	return model.Company{
		ID:              record[colCID],
		Name:            record[colCName],
		Address:         record[colCAddress],
		Phone:           record[colCPhone],
		Email:           record[colCEmail],
		Industry:        record[colCIndustry],
		FinancialYear:   record[colCYear],
		LoginID:         record[colCLogin],
		PasswordHash:    record[colCHash],
		AccountantName:  record[colCAcctName],
		AccountantEmail: record[colCAcctEmail],
		AccountantPhone: record[colCAcctPhone],
		AccountantRole:  record[colCAcctRole],
		CompanyRole:     model.CompanyRole(record[colCCompanyRole]),
	}, nil
}
