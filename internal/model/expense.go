package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus is the payment state of a bill.
type BillStatus string

const (
	StatusPaid     BillStatus = "Paid"
	StatusPending  BillStatus = "Pending"
	StatusRejected BillStatus = "Rejected"
)

// Statuses lists the valid bill statuses in display order.
var Statuses = []BillStatus{StatusPaid, StatusPending, StatusRejected}

// Valid reports whether s is one of the known statuses.
func (s BillStatus) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Expense is a recorded bill. LedgerEntryID points at the Debit entry that
// currently accounts for it.
type Expense struct {
	ID            string
	Date          time.Time
	Department    string
	Description   string
	Amount        decimal.Decimal
	Status        BillStatus
	Uploader      string
	Invoice       string // attached invoice file name, if any
	LedgerEntryID string
}
