// Package remote pushes newly recorded bills and budget changes to
// out-of-process archives. Failures are reported to the caller but never
// affect local state.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/model"
)

// Syncer receives records for archival.
type Syncer interface {
	SyncBill(ctx context.Context, e model.Expense) error
	SyncBudget(ctx context.Context, c BudgetChange) error
}

// BudgetChange is an allocation update. An empty Department means the total
// budget.
type BudgetChange struct {
	Department string
	Amount     decimal.Decimal
	At         time.Time
}

// BillRecord is the wire form of a bill.
type BillRecord struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Department  string      `json:"department"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Status      string      `json:"status"`
	Uploader    string      `json:"uploader"`
	Invoice     string      `json:"invoice,omitempty"`
}

// BudgetRecord is the wire form of a budget change.
type BudgetRecord struct {
	Scope      string      `json:"scope"`
	Department string      `json:"department,omitempty"`
	Amount     json.Number `json:"amount"`
	At         string      `json:"at"`
}

// NewBillRecord converts a bill to its wire form.
func NewBillRecord(e model.Expense) BillRecord {
	return BillRecord{
		ID:          e.ID,
		Date:        e.Date.Format("2006-01-02"),
		Department:  e.Department,
		Description: e.Description,
		Amount:      json.Number(model.FormatAmount(e.Amount)),
		Status:      string(e.Status),
		Uploader:    e.Uploader,
		Invoice:     e.Invoice,
	}
}

// NewBudgetRecord converts a budget change to its wire form.
func NewBudgetRecord(c BudgetChange) BudgetRecord {
	r := BudgetRecord{
		Scope:      "department",
		Department: c.Department,
		Amount:     json.Number(model.FormatAmount(c.Amount)),
		At:         c.At.UTC().Format(time.RFC3339),
	}
	if c.Department == "" {
		r.Scope = "total"
	}
	return r
}

// Nop discards everything.
type Nop struct{}

func (Nop) SyncBill(context.Context, model.Expense) error  { return nil }
func (Nop) SyncBudget(context.Context, BudgetChange) error { return nil }

// Multi fans out to every syncer and joins their errors.
type Multi []Syncer

func (m Multi) SyncBill(ctx context.Context, e model.Expense) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SyncBill(ctx, e))
	}
	return errors.Join(errs...)
}

func (m Multi) SyncBudget(ctx context.Context, c BudgetChange) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.SyncBudget(ctx, c))
	}
	return errors.Join(errs...)
}
