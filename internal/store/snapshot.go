// Package store persists a workspace's state as CSV files.
package store

import (
	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/model"
)

// Snapshot is the full persisted state of a workspace. Slices are in causal
// (creation) order.
type Snapshot struct {
	OpeningBalance decimal.Decimal
	TotalBudget    decimal.Decimal
	Departments    []model.Department
	Budgets        map[string]decimal.Decimal
	Ledger         []model.LedgerEntry
	Expenses       []model.Expense
	NextExpenseSeq int
	Companies      []model.Company
	ActiveCompany  string
}
