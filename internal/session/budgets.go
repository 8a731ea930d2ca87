package session

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/aggregate"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/model"
	"github.com/finad-dev/finad/internal/remote"
)

// Aggregates is every derived view computed from one consistent read.
type Aggregates struct {
	Overview          aggregate.Overview
	Departments       []aggregate.Utilization
	SpentByDepartment map[string]decimal.Decimal
	AllocatedTotal    decimal.Decimal
	OverAllocated     bool
	Balance           decimal.Decimal
	TopUps            decimal.Decimal
}

// Aggregates computes the budget views.
func (s *Session) Aggregates(p access.Principal) (Aggregates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpViewBudget, "budget.view"); err != nil {
		return Aggregates{}, err
	}
	return Aggregates{
		Overview:          s.engine.Overview(),
		Departments:       s.engine.Departments(),
		SpentByDepartment: s.engine.SpentByDepartment(),
		AllocatedTotal:    s.engine.AllocatedTotal(),
		OverAllocated:     s.engine.IsOverAllocated(),
		Balance:           s.ledger.CurrentBalance(),
		TopUps:            s.ledger.TopUpTotal(),
	}, nil
}

// Utilization reports one department's spend against its budget.
func (s *Session) Utilization(p access.Principal, label string) (aggregate.Utilization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpViewBudget, "budget.utilization"); err != nil {
		return aggregate.Utilization{}, err
	}
	if !s.departments.Known(label) {
		return aggregate.Utilization{}, model.NotFoundError("department", label)
	}
	return s.engine.BudgetUtilization(label), nil
}

// Variance returns a department's budget minus its spend.
func (s *Session) Variance(p access.Principal, label string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpViewBudget, "budget.variance"); err != nil {
		return decimal.Zero, err
	}
	if !s.departments.Known(label) {
		return decimal.Zero, model.NotFoundError("department", label)
	}
	return s.engine.Variance(label), nil
}

// TotalSpent sums the bills matching f.
func (s *Session) TotalSpent(p access.Principal, f expense.Filter) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "bill.total"); err != nil {
		return decimal.Zero, err
	}
	return s.engine.TotalSpent(f), nil
}

// StatusTotals splits a department's spend by status; empty label means all.
func (s *Session) StatusTotals(p access.Principal, label string) (aggregate.StatusTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "bill.status"); err != nil {
		return aggregate.StatusTotals{}, err
	}
	return s.engine.StatusTotals(label), nil
}

// Budgets returns the total budget and a copy of every allocation.
func (s *Session) Budgets(p access.Principal) (decimal.Decimal, map[string]decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpViewBudget, "budget.view"); err != nil {
		return decimal.Zero, nil, err
	}
	return s.budgets.Total(), s.budgets.All(), nil
}

// SetTotalBudget overwrites the total budget and syncs the change.
func (s *Session) SetTotalBudget(ctx context.Context, p access.Principal, amount decimal.Decimal) error {
	if err := s.setTotal(p, amount); err != nil {
		return err
	}
	s.syncBudget(ctx, remote.BudgetChange{Amount: amount, At: s.now()})
	return nil
}

func (s *Session) setTotal(p access.Principal, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "budget.total"
	if err := s.authorize(p, access.OpEditBudget, action); err != nil {
		return err
	}
	if err := s.budgets.SetTotal(amount); err != nil {
		return s.fail(p, action, "", err)
	}
	s.record(p, action, "", auditlog.Allowed, model.FormatAmount(amount))
	return nil
}

// SetDepartmentBudget overwrites an active department's allocation and syncs
// the change.
func (s *Session) SetDepartmentBudget(ctx context.Context, p access.Principal, label string, amount decimal.Decimal) error {
	if err := s.setDepartment(p, label, amount); err != nil {
		return err
	}
	s.syncBudget(ctx, remote.BudgetChange{Department: label, Amount: amount, At: s.now()})
	return nil
}

func (s *Session) setDepartment(p access.Principal, label string, amount decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "budget.department"
	if err := s.authorize(p, access.OpEditBudget, action); err != nil {
		return err
	}
	if !s.departments.Exists(label) {
		return s.fail(p, action, label, model.NotFoundError("department", label))
	}
	if err := s.budgets.SetDepartmentBudget(label, amount); err != nil {
		return s.fail(p, action, label, err)
	}
	s.record(p, action, label, auditlog.Allowed, model.FormatAmount(amount))
	return nil
}
