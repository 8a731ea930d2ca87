package department

import (
	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/model"
)

// DefaultCatalogue returns the departments a new workspace starts with.
func DefaultCatalogue() []model.Department {
	return []model.Department{
		{Label: "Technical Bills", Name: "Technical", Color: "#ff8c38"},
		{Label: "Salary Bills", Name: "Salary", Color: "#f26f16"},
		{Label: "Marketing Bills", Name: "Marketing", Color: "#ffc291"},
		{Label: "Employee Expenses", Name: "Employee Expenses", Color: "#ffd4b2"},
		{Label: "Political Bills", Name: "Political", Color: "#ffe5d0"},
	}
}

// DefaultBudgets returns the initial allocation for each default department.
func DefaultBudgets() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Technical Bills":   decimal.NewFromInt(200000),
		"Salary Bills":      decimal.NewFromInt(150000),
		"Marketing Bills":   decimal.NewFromInt(80000),
		"Employee Expenses": decimal.NewFromInt(50000),
		"Political Bills":   decimal.NewFromInt(50000),
	}
}
