package session

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/model"
)

// AddBill records a bill and its ledger debit, then hands the bill to the
// remote syncer. A sync failure does not undo the bill.
func (s *Session) AddBill(ctx context.Context, p access.Principal, in expense.BillInput) (model.Expense, error) {
	e, err := s.addBill(p, in)
	if err != nil {
		return model.Expense{}, err
	}
	s.syncBill(ctx, e)
	return e, nil
}

func (s *Session) addBill(p access.Principal, in expense.BillInput) (model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "bill.add"
	if err := s.authorize(p, access.OpAdd, action); err != nil {
		return model.Expense{}, err
	}
	if in.Uploader == "" {
		in.Uploader = principalName(p)
	}
	e, err := s.expenses.Add(in)
	if err != nil {
		return model.Expense{}, s.fail(p, action, "", err)
	}
	s.record(p, action, e.ID, auditlog.Allowed, e.Department+" "+model.FormatAmount(e.Amount))
	s.log.Info("bill added", zap.String("bill", e.ID), zap.String("ledger_entry", e.LedgerEntryID))
	return e, nil
}

// UpdateBill applies a patch to a bill.
func (s *Session) UpdateBill(p access.Principal, expenseID string, patch expense.BillPatch) (model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "bill.update"
	if err := s.authorize(p, access.OpEditExpense, action); err != nil {
		return model.Expense{}, err
	}
	e, err := s.expenses.Update(expenseID, patch)
	if err != nil {
		return model.Expense{}, s.fail(p, action, expenseID, err)
	}
	s.record(p, action, e.ID, auditlog.Allowed, "ledger entry "+e.LedgerEntryID)
	return e, nil
}

// RemoveBill deletes a bill and reverses its ledger debit.
func (s *Session) RemoveBill(p access.Principal, expenseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "bill.remove"
	if err := s.authorize(p, access.OpDeleteExpense, action); err != nil {
		return err
	}
	if err := s.expenses.Remove(expenseID); err != nil {
		return s.fail(p, action, expenseID, err)
	}
	s.record(p, action, expenseID, auditlog.Allowed, "")
	return nil
}

// ListBills returns the bills matching f, most recent first.
func (s *Session) ListBills(p access.Principal, f expense.Filter) ([]model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "bill.list"); err != nil {
		return nil, err
	}
	return s.expenses.List(f), nil
}

// GetBill returns one bill.
func (s *Session) GetBill(p access.Principal, expenseID string) (model.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "bill.get"); err != nil {
		return model.Expense{}, err
	}
	e, ok := s.expenses.Get(expenseID)
	if !ok {
		return model.Expense{}, model.NotFoundError("bill", expenseID)
	}
	return e, nil
}

// Ledger returns every ledger entry, most recent first.
func (s *Session) Ledger(p access.Principal) ([]model.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "ledger.list"); err != nil {
		return nil, err
	}
	return s.ledger.List(), nil
}

// CurrentBalance returns the running ledger balance.
func (s *Session) CurrentBalance(p access.Principal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "ledger.balance"); err != nil {
		return decimal.Zero, err
	}
	return s.ledger.CurrentBalance(), nil
}

// VerifyLedger recomputes every balance and checks every bill's pairing.
func (s *Session) VerifyLedger(p access.Principal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "ledger.verify"); err != nil {
		return err
	}
	if err := s.ledger.Verify(); err != nil {
		return err
	}
	return s.expenses.Verify()
}

// TopUp credits the ledger with a manual budget addition.
func (s *Session) TopUp(p access.Principal, date time.Time, amount decimal.Decimal, remarks string) (model.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "ledger.topup"
	if err := s.authorize(p, access.OpEditBudget, action); err != nil {
		return model.LedgerEntry{}, err
	}
	if date.IsZero() {
		date = s.now()
	}
	entry, err := s.ledger.TopUp(date, amount, remarks)
	if err != nil {
		return model.LedgerEntry{}, s.fail(p, action, "", err)
	}
	s.record(p, action, entry.ID, auditlog.Allowed, model.FormatAmount(amount))
	return entry, nil
}
