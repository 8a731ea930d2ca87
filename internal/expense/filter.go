package expense

import (
	"strings"
	"time"

	"github.com/finad-dev/finad/internal/model"
)

// Filter selects bills. Every set field must match; zero fields match all.
// From and To are inclusive day bounds.
type Filter struct {
	Department string
	Status     model.BillStatus
	Search     string
	From       time.Time
	To         time.Time
}

// Match reports whether e satisfies every set predicate.
func (f Filter) Match(e model.Expense) bool {
	if f.Department != "" && e.Department != f.Department {
		return false
	}
	if f.Status != "" && e.Status != f.Status {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.ID), q) && !strings.Contains(strings.ToLower(e.Description), q) {
			return false
		}
	}
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	return true
}
