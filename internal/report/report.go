// Package report builds the export tables behind the dashboard reports.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/aggregate"
	"github.com/finad-dev/finad/internal/export"
	"github.com/finad-dev/finad/internal/model"
)

const dateFormat = "2006-01-02"

// Kind names a report.
type Kind string

const (
	Expenses    Kind = "expenses"
	Monthly     Kind = "monthly"
	Departments Kind = "departments"
	Variance    Kind = "variance"
	Ledger      Kind = "ledger"
)

// Kinds lists the reports in menu order.
var Kinds = []Kind{Monthly, Departments, Variance, Ledger, Expenses}

var expenseColumns = []export.Column{
	{Key: "id", Label: "ID"},
	{Key: "date", Label: "Date"},
	{Key: "department", Label: "Department"},
	{Key: "description", Label: "Description"},
	{Key: "uploader", Label: "Uploaded By"},
	{Key: "status", Label: "Status"},
	{Key: "amount", Label: "Amount", IsAmount: true},
}

// ExpenseTable lists bills in the order given.
func ExpenseTable(title string, bills []model.Expense) export.Table {
	t := export.Table{Title: title, Columns: expenseColumns}
	for _, e := range bills {
		t.Rows = append(t.Rows, export.Row{
			e.ID,
			e.Date.Format(dateFormat),
			e.Department,
			e.Description,
			e.Uploader,
			string(e.Status),
			model.FormatAmount(e.Amount),
		})
	}
	return t
}

// MonthlyTable lists the bills dated in the month containing month.
func MonthlyTable(month time.Time, bills []model.Expense) export.Table {
	var in []model.Expense
	for _, e := range bills {
		if e.Date.Year() == month.Year() && e.Date.Month() == month.Month() {
			in = append(in, e)
		}
	}
	return ExpenseTable("Monthly Expense Report - "+month.Format("January 2006"), in)
}

// LedgerTable lists ledger entries in the order given.
func LedgerTable(entries []model.LedgerEntry) export.Table {
	t := export.Table{
		Title: "General Ledger",
		Columns: []export.Column{
			{Key: "id", Label: "Entry"},
			{Key: "date", Label: "Date"},
			{Key: "department", Label: "Department"},
			{Key: "type", Label: "Type"},
			{Key: "remarks", Label: "Remarks"},
			{Key: "balance", Label: "Balance"},
			{Key: "amount", Label: "Amount", IsAmount: true},
		},
	}
	for _, e := range entries {
		t.Rows = append(t.Rows, export.Row{
			e.ID,
			e.Date.Format(dateFormat),
			e.Department,
			string(e.Type),
			e.Remarks,
			model.FormatAmount(e.Balance),
			model.FormatAmount(e.Type.Signed(e.Amount)),
		})
	}
	return t
}

// DepartmentTable is the department-wise summary of spend.
func DepartmentTable(rows []aggregate.Utilization, bills []model.Expense) export.Table {
	counts := make(map[string]int)
	for _, e := range bills {
		counts[e.Department]++
	}
	t := export.Table{
		Title: "Department-wise Summary",
		Columns: []export.Column{
			{Key: "department", Label: "Department"},
			{Key: "bills", Label: "Bills"},
			{Key: "used", Label: "Used"},
			{Key: "spent", Label: "Spent", IsAmount: true},
		},
	}
	for _, u := range rows {
		t.Rows = append(t.Rows, export.Row{
			u.Department,
			strconv.Itoa(counts[u.Department]),
			u.Percent(),
			model.FormatAmount(u.Spent),
		})
	}
	return t
}

// VarianceTable compares each department's budget to its spend. The
// variance column is budget minus spend; negative means over budget.
func VarianceTable(rows []aggregate.Utilization) export.Table {
	t := export.Table{
		Title: "Budget Variance Report",
		Columns: []export.Column{
			{Key: "department", Label: "Department"},
			{Key: "budget", Label: "Budget"},
			{Key: "spent", Label: "Spent"},
			{Key: "status", Label: "Status"},
			{Key: "variance", Label: "Variance", IsAmount: true},
		},
	}
	for _, u := range rows {
		status := "Within budget"
		if u.OverBudget {
			status = "Over budget"
		}
		t.Rows = append(t.Rows, export.Row{
			u.Department,
			model.FormatAmount(u.Budget),
			model.FormatAmount(u.Spent),
			status,
			model.FormatAmount(u.Budget.Sub(u.Spent)),
		})
	}
	return t
}

// SummaryLines renders the budget overview as label/value pairs.
func SummaryLines(o aggregate.Overview, balance decimal.Decimal, currency string) [][2]string {
	lines := [][2]string{
		{"Total budget", currency + model.FormatAmount(o.TotalBudget)},
		{"Spent", currency + model.FormatAmount(o.Spent)},
		{"Remaining", currency + model.FormatAmount(o.Remaining)},
		{"Used", fmt.Sprintf("%s%%", o.PercentUsed.StringFixed(1))},
		{"Bills", strconv.Itoa(o.BillCount)},
		{"Ledger balance", currency + model.FormatAmount(balance)},
	}
	if o.Warning {
		lines = append(lines, [2]string{"Warning", fmt.Sprintf("over %s%% of the budget is spent", aggregate.WarningPercent)})
	}
	return lines
}

// SummaryTable wraps SummaryLines for export.
func SummaryTable(o aggregate.Overview, balance decimal.Decimal, currency string) export.Table {
	t := export.Table{
		Title: "Budget Overview",
		Columns: []export.Column{
			{Key: "metric", Label: "Metric"},
			{Key: "value", Label: "Value"},
		},
	}
	for _, l := range SummaryLines(o, balance, currency) {
		t.Rows = append(t.Rows, export.Row{l[0], l[1]})
	}
	return t
}
