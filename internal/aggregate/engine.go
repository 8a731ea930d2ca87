// Package aggregate derives read-only budget and spend views. Nothing is
// cached; every call recomputes from the current state of its sources.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/model"
)

// WarningPercent is the utilization above which Overview raises a warning.
var WarningPercent = decimal.NewFromInt(80)

var hundred = decimal.NewFromInt(100)

// ExpenseSource lists bills.
type ExpenseSource interface {
	List(f expense.Filter) []model.Expense
}

// BudgetSource reads allocations.
type BudgetSource interface {
	Get(department string) decimal.Decimal
	Total() decimal.Decimal
}

// DepartmentSource lists the active departments.
type DepartmentSource interface {
	Active() []model.Department
}

// Utilization is a department's spend against its allocation. PercentUsed is
// invalid when the budget is zero.
type Utilization struct {
	Department  string
	Spent       decimal.Decimal
	Budget      decimal.Decimal
	PercentUsed decimal.NullDecimal
	Remaining   decimal.Decimal
	OverBudget  bool
}

// Percent renders PercentUsed for display, "N/A" when undefined.
func (u Utilization) Percent() string {
	if !u.PercentUsed.Valid {
		return "N/A"
	}
	return u.PercentUsed.Decimal.StringFixed(1) + "%"
}

// StatusTotals splits a department's spend by bill status.
type StatusTotals struct {
	Paid     decimal.Decimal
	Pending  decimal.Decimal
	Rejected decimal.Decimal
	Count    int
}

// Overview is the headline budget picture.
type Overview struct {
	TotalBudget decimal.Decimal
	Spent       decimal.Decimal
	Remaining   decimal.Decimal
	PercentUsed decimal.Decimal // capped at 100
	Warning     bool
	BillCount   int
}

// Engine computes aggregates. It never mutates its sources.
type Engine struct {
	expenses    ExpenseSource
	budgets     BudgetSource
	departments DepartmentSource
}

// NewEngine creates an Engine over the given sources.
func NewEngine(expenses ExpenseSource, budgets BudgetSource, departments DepartmentSource) *Engine {
	return &Engine{expenses: expenses, budgets: budgets, departments: departments}
}

// TotalSpent sums the amounts of bills matching f. Every status counts.
func (e *Engine) TotalSpent(f expense.Filter) decimal.Decimal {
	total := decimal.Zero
	for _, x := range e.expenses.List(f) {
		total = total.Add(x.Amount)
	}
	return total
}

// SpentByDepartment sums spend per department label, including retired ones
// that still have bills.
func (e *Engine) SpentByDepartment() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, x := range e.expenses.List(expense.Filter{}) {
		out[x.Department] = out[x.Department].Add(x.Amount)
	}
	return out
}

// BudgetUtilization reports spend against allocation for one department.
func (e *Engine) BudgetUtilization(department string) Utilization {
	spent := e.TotalSpent(expense.Filter{Department: department})
	budget := e.budgets.Get(department)
	u := Utilization{
		Department: department,
		Spent:      spent,
		Budget:     budget,
		Remaining:  budget.Sub(spent),
		OverBudget: budget.IsPositive() && spent.GreaterThan(budget),
	}
	if budget.IsPositive() {
		u.PercentUsed = decimal.NewNullDecimal(percent(spent, budget))
	}
	return u
}

// Variance returns budget minus spend; negative means over budget.
func (e *Engine) Variance(department string) decimal.Decimal {
	return e.budgets.Get(department).Sub(e.TotalSpent(expense.Filter{Department: department}))
}

// IsOverAllocated reports whether active department allocations add up to
// more than the total budget.
func (e *Engine) IsOverAllocated() bool {
	return e.AllocatedTotal().GreaterThan(e.budgets.Total())
}

// AllocatedTotal sums the allocations of active departments.
func (e *Engine) AllocatedTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, d := range e.departments.Active() {
		sum = sum.Add(e.budgets.Get(d.Label))
	}
	return sum
}

// StatusTotals splits one department's spend by status. An empty department
// covers every bill.
func (e *Engine) StatusTotals(department string) StatusTotals {
	var st StatusTotals
	for _, x := range e.expenses.List(expense.Filter{Department: department}) {
		st.Count++
		switch x.Status {
		case model.StatusPaid:
			st.Paid = st.Paid.Add(x.Amount)
		case model.StatusPending:
			st.Pending = st.Pending.Add(x.Amount)
		case model.StatusRejected:
			st.Rejected = st.Rejected.Add(x.Amount)
		}
	}
	return st
}

// Overview reports total spend against the total budget.
func (e *Engine) Overview() Overview {
	bills := e.expenses.List(expense.Filter{})
	spent := decimal.Zero
	for _, x := range bills {
		spent = spent.Add(x.Amount)
	}
	total := e.budgets.Total()
	o := Overview{
		TotalBudget: total,
		Spent:       spent,
		Remaining:   total.Sub(spent),
		BillCount:   len(bills),
	}
	if total.IsPositive() {
		o.PercentUsed = decimal.Min(percent(spent, total), hundred)
		o.Warning = o.PercentUsed.GreaterThan(WarningPercent)
	}
	return o
}

// Departments reports utilization for every active department in catalogue
// order.
func (e *Engine) Departments() []Utilization {
	active := e.departments.Active()
	out := make([]Utilization, 0, len(active))
	for _, d := range active {
		out = append(out, e.BudgetUtilization(d.Label))
	}
	return out
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	return part.Div(whole).Mul(hundred).Round(2)
}
