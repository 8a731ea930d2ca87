// Package ledger holds the append-only record of balance-affecting events.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finad-dev/finad/internal/id"
	"github.com/finad-dev/finad/internal/model"
)

// EntryInput holds the caller-supplied fields of a new entry. Id and balance
// are computed by the store.
type EntryInput struct {
	Date       time.Time
	Department string
	Type       model.EntryType
	Amount     decimal.Decimal
	Remarks    string
}

// Checkpoint marks a position in the log that Rollback can return to.
type Checkpoint struct {
	length   int
	nextSeq  int
	reversed int
}

// Store is the ledger. Entries are kept in causal (insertion) order; balances
// are derived at append time from the previous entry and never edited.
type Store struct {
	opening  decimal.Decimal
	entries  []model.LedgerEntry
	byID     map[string]int
	seq      *id.Sequence
	reversal []string // originals marked reversed, in order, for rollback
}

// NewStore creates an empty ledger starting at the opening balance.
func NewStore(opening decimal.Decimal) *Store {
	return &Store{
		opening: opening,
		byID:    make(map[string]int),
		seq:     id.NewSequence(1),
	}
}

// Restore rebuilds a store from persisted entries in causal order and verifies
// every running balance.
func Restore(opening decimal.Decimal, entries []model.LedgerEntry) (*Store, error) {
	s := NewStore(opening)
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, dup := s.byID[e.ID]; dup {
			return nil, model.InconsistentError("duplicate ledger entry %s", e.ID)
		}
		s.byID[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
		ids = append(ids, e.ID)
	}
	s.seq = id.NewSequence(id.NextSeq(id.LedgerPrefix, ids))
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// OpeningBalance returns the balance before the first entry.
func (s *Store) OpeningBalance() decimal.Decimal { return s.opening }

// Append records a new entry and returns it with its id and running balance.
func (s *Store) Append(in EntryInput) (model.LedgerEntry, error) {
	if err := model.ValidateAmount(in.Amount); err != nil {
		return model.LedgerEntry{}, err
	}
	if in.Type != model.Debit && in.Type != model.Credit {
		return model.LedgerEntry{}, model.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown entry type %q", in.Type)}
	}
	return s.push(model.LedgerEntry{
		Date:       in.Date,
		Department: strings.TrimSpace(in.Department),
		Type:       in.Type,
		Amount:     in.Amount,
		Remarks:    in.Remarks,
	}), nil
}

// TopUp appends a manual budget credit.
func (s *Store) TopUp(date time.Time, amount decimal.Decimal, remarks string) (model.LedgerEntry, error) {
	return s.Append(EntryInput{
		Date:       date,
		Department: model.BudgetAddDepartment,
		Type:       model.Credit,
		Amount:     amount,
		Remarks:    remarks,
	})
}

// Reverse appends a compensating entry with the inverted type and the same
// amount, and marks the original as reversed.
func (s *Store) Reverse(entryID string) (model.LedgerEntry, error) {
	idx, ok := s.byID[entryID]
	if !ok {
		return model.LedgerEntry{}, model.NotFoundError("ledger entry", entryID)
	}
	orig := s.entries[idx]
	if orig.IsReversed() {
		return model.LedgerEntry{}, fmt.Errorf("reversing %s: %w", entryID, model.ErrAlreadyReversed)
	}
	if orig.IsReversal() {
		return model.LedgerEntry{}, model.InconsistentError("%s is itself a reversal of %s", entryID, orig.ReversalOf)
	}

	comp := s.push(model.LedgerEntry{
		Date:       orig.Date,
		Department: orig.Department,
		Type:       orig.Type.Invert(),
		Amount:     orig.Amount,
		Remarks:    "Reversal of " + orig.ID + ": " + orig.Remarks,
		ReversalOf: orig.ID,
	})
	s.entries[idx].ReversedBy = comp.ID
	s.reversal = append(s.reversal, orig.ID)
	return comp, nil
}

func (s *Store) push(e model.LedgerEntry) model.LedgerEntry {
	e.ID = id.FormatLedgerID(s.seq.Next())
	e.Balance = s.CurrentBalance().Add(e.Type.Signed(e.Amount))
	s.byID[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return e
}

// CurrentBalance returns the balance after the most recent entry, or the
// opening balance when the ledger is empty.
func (s *Store) CurrentBalance() decimal.Decimal {
	if len(s.entries) == 0 {
		return s.opening
	}
	return s.entries[len(s.entries)-1].Balance
}

// Get returns an entry by id.
func (s *Store) Get(entryID string) (model.LedgerEntry, bool) {
	idx, ok := s.byID[entryID]
	if !ok {
		return model.LedgerEntry{}, false
	}
	return s.entries[idx], true
}

// List returns all entries most-recent-first. The slice is a fresh copy.
func (s *Store) List() []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	return out
}

// Entries returns all entries in causal order. The slice is a fresh copy.
func (s *Store) Entries() []model.LedgerEntry {
	out := make([]model.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// TopUpTotal sums the Credit entries that are not reversals.
func (s *Store) TopUpTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		if e.Type == model.Credit && !e.IsReversal() {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Checkpoint captures the current end of the log.
func (s *Store) Checkpoint() Checkpoint {
	return Checkpoint{length: len(s.entries), nextSeq: s.seq.Peek(), reversed: len(s.reversal)}
}

// Rollback discards every entry appended after cp and clears the reversal
// marks those entries set.
func (s *Store) Rollback(cp Checkpoint) {
	for i := len(s.reversal) - 1; i >= cp.reversed; i-- {
		if idx, ok := s.byID[s.reversal[i]]; ok {
			s.entries[idx].ReversedBy = ""
		}
	}
	s.reversal = s.reversal[:cp.reversed]
	for _, e := range s.entries[cp.length:] {
		delete(s.byID, e.ID)
	}
	s.entries = s.entries[:cp.length]
	s.seq.Reset(cp.nextSeq)
}

// Verify walks forward from the opening balance and checks every stored
// balance and reversal link.
func (s *Store) Verify() error {
	bal := s.opening
	for i, e := range s.entries {
		if err := model.ValidateAmount(e.Amount); err != nil {
			return model.InconsistentError("entry %s: %v", e.ID, err)
		}
		bal = bal.Add(e.Type.Signed(e.Amount))
		if !bal.Equal(e.Balance) {
			return model.InconsistentError("entry %s (row %d): balance %s, expected %s",
				e.ID, i+1, model.FormatAmount(e.Balance), model.FormatAmount(bal))
		}
		if e.IsReversal() {
			orig, ok := s.Get(e.ReversalOf)
			if !ok || orig.ReversedBy != e.ID {
				return model.InconsistentError("entry %s reverses %s but the link is broken", e.ID, e.ReversalOf)
			}
			if orig.Amount.Cmp(e.Amount) != 0 || orig.Type != e.Type.Invert() {
				return model.InconsistentError("entry %s does not mirror %s", e.ID, e.ReversalOf)
			}
		}
		if e.IsReversed() {
			idx, ok := s.byID[e.ReversedBy]
			if !ok || idx <= i || s.entries[idx].ReversalOf != e.ID {
				return model.InconsistentError("entry %s is marked reversed by %s but no such reversal follows it", e.ID, e.ReversedBy)
			}
		}
	}
	return nil
}
