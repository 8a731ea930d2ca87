package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a ledger entry.
type EntryType string

const (
	Debit  EntryType = "Debit"
	Credit EntryType = "Credit"
)

// Invert returns the opposite direction.
func (t EntryType) Invert() EntryType {
	if t == Debit {
		return Credit
	}
	return Debit
}

// Signed returns amount with the sign this entry type applies to the balance.
func (t EntryType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Debit {
		return amount.Neg()
	}
	return amount
}

// LedgerEntry is an immutable balance-affecting event. Balance is the running
// total after applying this entry.
type LedgerEntry struct {
	ID         string
	Date       time.Time
	Department string
	Type       EntryType
	Amount     decimal.Decimal
	Balance    decimal.Decimal
	Remarks    string
	ReversalOf string // id of the entry this one compensates
	ReversedBy string // id of the entry that compensated this one
}

// IsReversal reports whether the entry compensates another entry.
func (e LedgerEntry) IsReversal() bool { return e.ReversalOf != "" }

// IsReversed reports whether the entry has been compensated.
func (e LedgerEntry) IsReversed() bool { return e.ReversedBy != "" }
