package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	ExpensePrefix = "EXP"
	LedgerPrefix  = "L"
	CompanyPrefix = "comp"
)

// Format returns a sequence id like "EXP-001". Sequences past 999 widen.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// FormatExpenseID returns a bill id like "EXP-001".
func FormatExpenseID(seq int) string { return Format(ExpensePrefix, seq) }

// FormatLedgerID returns a ledger entry id like "L-001".
func FormatLedgerID(seq int) string { return Format(LedgerPrefix, seq) }

// ParseSeq parses "EXP-001" with prefix "EXP" into 1.
func ParseSeq(prefix, id string) (int, error) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, fmt.Errorf("invalid id format: %q (want %s-NNN)", id, prefix)
	}
	seq, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid sequence in id %q: %w", id, err)
	}
	if seq < 1 {
		return 0, fmt.Errorf("invalid sequence in id %q: must be positive", id)
	}
	return seq, nil
}

// NextSeq returns one past the highest sequence among ids with the given prefix.
// Ids that do not parse are ignored.
func NextSeq(prefix string, ids []string) int {
	maxSeq := 0
	for _, s := range ids {
		seq, err := ParseSeq(prefix, s)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

// NewCompanyID returns a fresh company id like "comp-1b4e28ba-...".
func NewCompanyID() string {
	return CompanyPrefix + "-" + uuid.NewString()
}

// Sequence hands out monotonically increasing sequence numbers. The zero value
// starts at 1. Numbers are never reused, so deleting a record cannot cause an
// id collision.
type Sequence struct {
	next int
}

// NewSequence returns a Sequence whose next value is next (minimum 1).
func NewSequence(next int) *Sequence {
	if next < 1 {
		next = 1
	}
	return &Sequence{next: next}
}

// Next returns the next number and advances.
func (s *Sequence) Next() int {
	if s.next < 1 {
		s.next = 1
	}
	n := s.next
	s.next++
	return n
}

// Peek returns the number Next would return.
func (s *Sequence) Peek() int {
	if s.next < 1 {
		return 1
	}
	return s.next
}

// Reset sets the next number, used when rolling back a reservation.
func (s *Sequence) Reset(next int) {
	s.next = next
}
