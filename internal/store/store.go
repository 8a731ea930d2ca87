package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/ledger"
	"github.com/finad-dev/finad/internal/model"
)

// Dir is the workspace subdirectory holding the books.
const Dir = "books"

// File names under Dir.
const (
	DepartmentsFile = "departments.csv"
	BudgetsFile     = "budgets.csv"
	LedgerFile      = "ledger.csv"
	ExpensesFile    = "expenses.csv"
	CompaniesFile   = "companies.csv"
	CountersFile    = "counters.csv"
)

// Counter keys in counters.csv.
const (
	keyOpening = "opening_balance"
	keyNextExp = "next_expense_seq"
	keyActive  = "active_company"
)

// ErrNoWorkspace is returned by Load when root holds no books.
var ErrNoWorkspace = errors.New("no finad books found")

// Path returns the path of a books file under root.
func Path(root, file string) string {
	return filepath.Join(root, Dir, file)
}

// Exists reports whether root holds saved books.
func Exists(root string) bool {
	_, err := os.Stat(Path(root, CountersFile))
	return err == nil
}

// Save writes every books file under root. Each file is written to a
// temporary name and renamed into place.
func Save(root string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Join(root, Dir), 0o755); err != nil {
		return fmt.Errorf("creating books dir: %w", err)
	}

	files := []struct {
		name   string
		header string
		rows   [][]string
	}{
		{DepartmentsFile, DepartmentsHeader, mapRows(snap.Departments, MarshalDepartment)},
		{BudgetsFile, BudgetsHeader, budgetRows(snap)},
		{LedgerFile, LedgerHeader, mapRows(snap.Ledger, MarshalLedgerEntry)},
		{ExpensesFile, ExpensesHeader, mapRows(snap.Expenses, MarshalExpense)},
		{CompaniesFile, CompaniesHeader, mapRows(snap.Companies, MarshalCompany)},
		{CountersFile, CountersHeader, [][]string{
			{keyOpening, model.FormatAmount(snap.OpeningBalance)},
			{keyNextExp, strconv.Itoa(snap.NextExpenseSeq)},
			{keyActive, snap.ActiveCompany},
		}},
	}
	for _, f := range files {
		if err := writeFile(Path(root, f.name), f.header, f.rows); err != nil {
			return fmt.Errorf("writing %s: %w", f.name, err)
		}
	}
	return nil
}

// Load reads the books under root and checks the ledger's running balances.
func Load(root string) (Snapshot, error) {
	if !Exists(root) {
		return Snapshot{}, fmt.Errorf("%s: %w", root, ErrNoWorkspace)
	}

	var snap Snapshot
	if err := loadCounters(root, &snap); err != nil {
		return Snapshot{}, err
	}
	var err error
	if snap.Departments, err = readFile(root, DepartmentsFile, deptFields, UnmarshalDepartment); err != nil {
		return Snapshot{}, err
	}
	if err := loadBudgets(root, &snap); err != nil {
		return Snapshot{}, err
	}
	if snap.Ledger, err = readFile(root, LedgerFile, ledgerFields, UnmarshalLedgerEntry); err != nil {
		return Snapshot{}, err
	}
	if snap.Expenses, err = readFile(root, ExpensesFile, expenseFields, UnmarshalExpense); err != nil {
		return Snapshot{}, err
	}
	if snap.Companies, err = readFile(root, CompaniesFile, companyFields, UnmarshalCompany); err != nil {
		return Snapshot{}, err
	}

	if _, err := ledger.Restore(snap.OpeningBalance, snap.Ledger); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", LedgerFile, err)
	}
	return snap, nil
}

func mapRows[T any](items []T, marshal func(T) []string) [][]string {
	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = marshal(it)
	}
	return rows
}

// budgetRows puts the total first, then departments sorted by label so the
// file diffs cleanly.
func budgetRows(snap Snapshot) [][]string {
	rows := [][]string{{kindTotal, "", model.FormatAmount(snap.TotalBudget)}}
	labels := make([]string, 0, len(snap.Budgets))
	for label := range snap.Budgets {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	for _, label := range labels {
		rows = append(rows, []string{kindDepartment, label, model.FormatAmount(snap.Budgets[label])})
	}
	return rows
}

func writeFile(path, header string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeRows(tmp, header, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func readFile[T any](root, name string, fields int, unmarshal func([]string) (T, error)) ([]T, error) {
	f, err := os.Open(Path(root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	records, err := readRows(f, fields)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	out := make([]T, 0, len(records))
	for i, rec := range records {
		v, err := unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func loadBudgets(root string, snap *Snapshot) error {
	type row struct {
		kind, department string
		amount           decimal.Decimal
	}
	rows, err := readFile(root, BudgetsFile, 3, func(rec []string) (row, error) {
		amt, err := parseDecimal("amount", rec[2])
		if err != nil {
			return row{}, err
		}
		if rec[0] != kindTotal && rec[0] != kindDepartment {
			return row{}, fmt.Errorf("unknown budget kind %q", rec[0])
		}
		return row{kind: rec[0], department: rec[1], amount: amt}, nil
	})
	if err != nil {
		return err
	}
	snap.Budgets = make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		if r.kind == kindTotal {
			snap.TotalBudget = r.amount
			continue
		}
		snap.Budgets[r.department] = r.amount
	}
	return nil
}

func loadCounters(root string, snap *Snapshot) error {
	rows, err := readFile(root, CountersFile, 2, func(rec []string) ([]string, error) { return rec, nil })
	if err != nil {
		return err
	}
	for _, rec := range rows {
		switch rec[0] {
		case keyOpening:
			if snap.OpeningBalance, err = parseDecimal(keyOpening, rec[1]); err != nil {
				return fmt.Errorf("%s: %w", CountersFile, err)
			}
		case keyNextExp:
			n, err := strconv.Atoi(rec[1])
			if err != nil {
				return fmt.Errorf("%s: parsing %s %q: %w", CountersFile, keyNextExp, rec[1], err)
			}
			snap.NextExpenseSeq = n
		case keyActive:
			snap.ActiveCompany = rec[1]
		}
	}
	return nil
}
