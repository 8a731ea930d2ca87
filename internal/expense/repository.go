// Package expense stores bills and keeps each one paired with the ledger
// entry that accounts for it.
package expense

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/id"
	"github.com/finad-dev/finad/internal/ledger"
	"github.com/finad-dev/finad/internal/model"
	"github.com/finad-dev/finad/internal/validate"
)

// DefaultUploader is recorded when a bill does not name who uploaded it.
const DefaultUploader = "Admin"

// DepartmentChecker tests whether a department label may be used on a new bill.
type DepartmentChecker interface {
	Exists(label string) bool
}

// BillInput holds the fields of a new bill.
type BillInput struct {
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Department  string           `json:"department" validate:"required"`
	Description string           `json:"description" validate:"required"`
	Amount      decimal.Decimal  `json:"amount" validate:"-"`
	Status      model.BillStatus `json:"status" validate:"omitempty,oneof=Paid Pending Rejected"`
	Uploader    string           `json:"uploader"`
	Invoice     string           `json:"invoice"`
}

// BillPatch holds the fields to change on an existing bill. Nil fields are
// left alone.
type BillPatch struct {
	Date        *string
	Department  *string
	Description *string
	Amount      *decimal.Decimal
	Status      *model.BillStatus
	Invoice     *string
}

func (p BillPatch) apply(in *BillInput) {
	if p.Date != nil {
		in.Date = *p.Date
	}
	if p.Department != nil {
		in.Department = *p.Department
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Amount != nil {
		in.Amount = *p.Amount
	}
	if p.Status != nil {
		in.Status = *p.Status
	}
	if p.Invoice != nil {
		in.Invoice = *p.Invoice
	}
}

// Repository is the only writer allowed to create or reverse bill debits.
// Callers serialize access; the repository itself is not goroutine safe.
type Repository struct {
	ledger      *ledger.Store
	departments DepartmentChecker
	expenses    []model.Expense // creation order
	byID        map[string]int
	seq         *id.Sequence
}

// NewRepository creates an empty repository writing to the given ledger.
func NewRepository(l *ledger.Store, departments DepartmentChecker) *Repository {
	return &Repository{
		ledger:      l,
		departments: departments,
		byID:        make(map[string]int),
		seq:         id.NewSequence(1),
	}
}

// Restore loads persisted bills in creation order. nextSeq is the next bill
// sequence number; it is raised if any restored id is at or past it so ids
// are never reused.
func (r *Repository) Restore(expenses []model.Expense, nextSeq int) error {
	byID := make(map[string]int, len(expenses))
	ids := make([]string, 0, len(expenses))
	for i, e := range expenses {
		if _, dup := byID[e.ID]; dup {
			return model.InconsistentError("duplicate bill %s", e.ID)
		}
		byID[e.ID] = i
		ids = append(ids, e.ID)
	}
	if n := id.NextSeq(id.ExpensePrefix, ids); n > nextSeq {
		nextSeq = n
	}

	r.expenses = append([]model.Expense(nil), expenses...)
	r.byID = byID
	r.seq = id.NewSequence(nextSeq)
	return r.Verify()
}

// Add validates a bill, appends its Debit ledger entry and stores it. If the
// ledger append fails nothing is stored.
func (r *Repository) Add(in BillInput) (model.Expense, error) {
	e, err := r.build(in, "")
	if err != nil {
		return model.Expense{}, err
	}

	entry, err := r.ledger.Append(debitFor(e))
	if err != nil {
		return model.Expense{}, fmt.Errorf("recording bill in ledger: %w", err)
	}
	e.ID = id.FormatExpenseID(r.seq.Next())
	e.LedgerEntryID = entry.ID

	r.byID[e.ID] = len(r.expenses)
	r.expenses = append(r.expenses, e)
	return e, nil
}

// Update applies a patch. When the amount or department changes the paired
// entry is reversed and a new Debit recorded for the new values; other edits
// leave the ledger alone. On any failure neither store changes.
func (r *Repository) Update(expenseID string, p BillPatch) (model.Expense, error) {
	idx, ok := r.byID[expenseID]
	if !ok {
		return model.Expense{}, model.NotFoundError("bill", expenseID)
	}
	cur := r.expenses[idx]

	in := inputFrom(cur)
	p.apply(&in)
	next, err := r.build(in, cur.Department)
	if err != nil {
		return model.Expense{}, err
	}
	next.ID = cur.ID
	next.LedgerEntryID = cur.LedgerEntryID

	if next.Amount.Equal(cur.Amount) && next.Department == cur.Department {
		r.expenses[idx] = next
		return next, nil
	}

	if _, err := r.pairedEntry(cur); err != nil {
		return model.Expense{}, err
	}
	cp := r.ledger.Checkpoint()
	if _, err := r.ledger.Reverse(cur.LedgerEntryID); err != nil {
		r.ledger.Rollback(cp)
		return model.Expense{}, fmt.Errorf("reversing entry for bill %s: %w", cur.ID, err)
	}
	entry, err := r.ledger.Append(debitFor(next))
	if err != nil {
		r.ledger.Rollback(cp)
		return model.Expense{}, fmt.Errorf("recording updated bill %s: %w", cur.ID, err)
	}
	next.LedgerEntryID = entry.ID
	r.expenses[idx] = next
	return next, nil
}

// Remove deletes a bill and reverses its paired ledger entry.
func (r *Repository) Remove(expenseID string) error {
	idx, ok := r.byID[expenseID]
	if !ok {
		return model.NotFoundError("bill", expenseID)
	}
	e := r.expenses[idx]
	if _, err := r.pairedEntry(e); err != nil {
		return err
	}
	if _, err := r.ledger.Reverse(e.LedgerEntryID); err != nil {
		return fmt.Errorf("reversing entry for bill %s: %w", e.ID, err)
	}

	r.expenses = append(r.expenses[:idx], r.expenses[idx+1:]...)
	delete(r.byID, expenseID)
	for i := idx; i < len(r.expenses); i++ {
		r.byID[r.expenses[i].ID] = i
	}
	return nil
}

// Get returns a bill by id.
func (r *Repository) Get(expenseID string) (model.Expense, bool) {
	idx, ok := r.byID[expenseID]
	if !ok {
		return model.Expense{}, false
	}
	return r.expenses[idx], true
}

// List returns the bills matching f, most recent first.
func (r *Repository) List(f Filter) []model.Expense {
	var out []model.Expense
	for i := len(r.expenses) - 1; i >= 0; i-- {
		if f.Match(r.expenses[i]) {
			out = append(out, r.expenses[i])
		}
	}
	return out
}

// All returns every bill in creation order.
func (r *Repository) All() []model.Expense {
	out := make([]model.Expense, len(r.expenses))
	copy(out, r.expenses)
	return out
}

// Len returns the number of bills.
func (r *Repository) Len() int { return len(r.expenses) }

// NextSeq returns the sequence number the next bill will get.
func (r *Repository) NextSeq() int { return r.seq.Peek() }

// Verify checks that every bill has exactly one live Debit entry with the
// same amount and department, and that no live Debit is unclaimed.
func (r *Repository) Verify() error {
	claimed := make(map[string]string, len(r.expenses))
	for _, e := range r.expenses {
		entry, err := r.pairedEntry(e)
		if err != nil {
			return err
		}
		if owner, dup := claimed[entry.ID]; dup {
			return model.InconsistentError("ledger entry %s is claimed by %s and %s", entry.ID, owner, e.ID)
		}
		claimed[entry.ID] = e.ID
		if entry.Type != model.Debit || !entry.Amount.Equal(e.Amount) || entry.Department != e.Department {
			return model.InconsistentError("ledger entry %s does not match bill %s", entry.ID, e.ID)
		}
	}
	for _, entry := range r.ledger.Entries() {
		if entry.Type == model.Debit && !entry.IsReversal() && !entry.IsReversed() {
			if _, ok := claimed[entry.ID]; !ok {
				return model.InconsistentError("live debit %s has no bill", entry.ID)
			}
		}
	}
	return nil
}

func (r *Repository) pairedEntry(e model.Expense) (model.LedgerEntry, error) {
	entry, ok := r.ledger.Get(e.LedgerEntryID)
	if !ok {
		return model.LedgerEntry{}, model.InconsistentError("bill %s points at missing ledger entry %q", e.ID, e.LedgerEntryID)
	}
	if entry.IsReversed() {
		return model.LedgerEntry{}, fmt.Errorf("bill %s: entry %s: %w", e.ID, entry.ID, model.ErrAlreadyReversed)
	}
	return entry, nil
}

// build validates in and converts it to an Expense without id or ledger link.
// keepDepartment may name a retired department the bill already uses.
func (r *Repository) build(in BillInput, keepDepartment string) (model.Expense, error) {
	in.Date = strings.TrimSpace(in.Date)
	in.Department = strings.TrimSpace(in.Department)
	in.Description = strings.TrimSpace(in.Description)
	in.Uploader = strings.TrimSpace(in.Uploader)

	if err := validate.Struct(in); err != nil {
		return model.Expense{}, err
	}
	if err := model.ValidateAmount(in.Amount); err != nil {
		return model.Expense{}, err
	}
	if in.Department != keepDepartment && !r.departments.Exists(in.Department) {
		return model.Expense{}, model.ValidationError{Field: "department", Reason: fmt.Sprintf("unknown department %q", in.Department)}
	}

	date, err := time.Parse(validate.DateLayout, in.Date)
	if err != nil {
		return model.Expense{}, model.ValidationError{Field: "date", Reason: err.Error()}
	}
	if in.Status == "" {
		in.Status = model.StatusPaid
	}
	if in.Uploader == "" {
		in.Uploader = DefaultUploader
	}
	return model.Expense{
		Date:        date,
		Department:  in.Department,
		Description: in.Description,
		Amount:      in.Amount,
		Status:      in.Status,
		Uploader:    in.Uploader,
		Invoice:     in.Invoice,
	}, nil
}

func inputFrom(e model.Expense) BillInput {
	return BillInput{
		Date:        e.Date.Format(validate.DateLayout),
		Department:  e.Department,
		Description: e.Description,
		Amount:      e.Amount,
		Status:      e.Status,
		Uploader:    e.Uploader,
		Invoice:     e.Invoice,
	}
}

func debitFor(e model.Expense) ledger.EntryInput {
	return ledger.EntryInput{
		Date:       e.Date,
		Department: e.Department,
		Type:       model.Debit,
		Amount:     e.Amount,
		Remarks:    e.Description,
	}
}
