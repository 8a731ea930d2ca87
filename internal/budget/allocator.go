// Package budget holds department and total budget allocations. Allocations
// are independent of spend.
package budget

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/model"
)

// Allocator maps department labels to allocated amounts plus a total budget.
// It does not check that department allocations fit inside the total.
type Allocator struct {
	total       decimal.Decimal
	allocations map[string]decimal.Decimal
}

// NewAllocator creates an Allocator with the given total and no department
// allocations.
func NewAllocator(total decimal.Decimal) *Allocator {
	return &Allocator{total: total, allocations: make(map[string]decimal.Decimal)}
}

// SetTotal overwrites the total budget. Department allocations are left as they are.
func (a *Allocator) SetTotal(amount decimal.Decimal) error {
	if err := model.ValidateAmount(amount); err != nil {
		return fmt.Errorf("total budget: %w", err)
	}
	a.total = amount
	return nil
}

// SetDepartmentBudget overwrites one department's allocation.
func (a *Allocator) SetDepartmentBudget(department string, amount decimal.Decimal) error {
	department = strings.TrimSpace(department)
	if department == "" {
		return model.ValidationError{Field: "department", Reason: "is required"}
	}
	if err := model.ValidateAllocation(amount); err != nil {
		return fmt.Errorf("budget for %s: %w", department, err)
	}
	a.allocations[department] = amount
	return nil
}

// Ensure gives a department a zero allocation unless it already has one.
func (a *Allocator) Ensure(department string) {
	if _, ok := a.allocations[department]; !ok {
		a.allocations[department] = decimal.Zero
	}
}

// Get returns a department's allocation, zero if unset.
func (a *Allocator) Get(department string) decimal.Decimal {
	return a.allocations[department]
}

// Total returns the total budget.
func (a *Allocator) Total() decimal.Decimal { return a.total }

// All returns a copy of the department allocations.
func (a *Allocator) All() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(a.allocations))
	for k, v := range a.allocations {
		out[k] = v
	}
	return out
}
