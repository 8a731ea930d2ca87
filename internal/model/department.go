package model

// BudgetAddDepartment is the department tag carried by manual top-up credits.
const BudgetAddDepartment = "Budget Add"

// Department is a shared expense category. Label is its stable identifier.
type Department struct {
	Label   string
	Name    string
	Color   string // display hint only
	Retired bool   // removed from the active set, still referenced by history
}
