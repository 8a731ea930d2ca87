package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func debit(dept, amount string) EntryInput {
	return EntryInput{Date: date(2026, 2, 23), Department: dept, Type: model.Debit, Amount: dec(amount), Remarks: "bill"}
}

func TestAppend_RunningBalance(t *testing.T) {
	s := NewStore(dec("500000"))

	e1, err := s.Append(debit("Technical Bills", "45000"))
	require.NoError(t, err)
	assert.Equal(t, "L-001", e1.ID)
	assert.True(t, e1.Balance.Equal(dec("455000")))

	e2, err := s.TopUp(date(2026, 2, 22), dec("100000"), "Q1 Top up")
	require.NoError(t, err)
	assert.Equal(t, "L-002", e2.ID)
	assert.Equal(t, model.BudgetAddDepartment, e2.Department)
	assert.True(t, e2.Balance.Equal(dec("555000")))

	assert.True(t, s.CurrentBalance().Equal(dec("555000")))
}

func TestAppend_InvalidAmount(t *testing.T) {
	s := NewStore(dec("100"))
	for _, amt := range []string{"0", "-1", "0.001"} {
		_, err := s.Append(debit("Technical Bills", amt))
		assert.ErrorIs(t, err, model.ErrInvalidAmount, "amount %s", amt)
	}
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.CurrentBalance().Equal(dec("100")))
}

func TestAppend_UnknownType(t *testing.T) {
	s := NewStore(dec("100"))
	_, err := s.Append(EntryInput{Type: "Transfer", Amount: dec("1")})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestCurrentBalance_Empty(t *testing.T) {
	s := NewStore(dec("500000"))
	assert.True(t, s.CurrentBalance().Equal(dec("500000")))
	assert.Empty(t, s.List())
}

func TestReverse(t *testing.T) {
	s := NewStore(dec("500000"))
	orig, err := s.Append(debit("Technical Bills", "45000"))
	require.NoError(t, err)

	comp, err := s.Reverse(orig.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Credit, comp.Type)
	assert.True(t, comp.Amount.Equal(orig.Amount))
	assert.Equal(t, orig.ID, comp.ReversalOf)
	assert.Equal(t, "Technical Bills", comp.Department)
	assert.True(t, s.CurrentBalance().Equal(dec("500000")), "reversal restores the balance")

	got, ok := s.Get(orig.ID)
	require.True(t, ok)
	assert.Equal(t, comp.ID, got.ReversedBy)

	// Reversals are not top-ups.
	assert.True(t, s.TopUpTotal().IsZero())
}

func TestReverse_Errors(t *testing.T) {
	s := NewStore(dec("1000"))
	_, err := s.Reverse("L-999")
	assert.ErrorIs(t, err, model.ErrNotFound)

	e, err := s.Append(debit("Salary Bills", "10"))
	require.NoError(t, err)
	comp, err := s.Reverse(e.ID)
	require.NoError(t, err)

	_, err = s.Reverse(e.ID)
	assert.ErrorIs(t, err, model.ErrAlreadyReversed)
	assert.ErrorIs(t, err, model.ErrInconsistentState)

	_, err = s.Reverse(comp.ID)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
}

func TestList_MostRecentFirst(t *testing.T) {
	s := NewStore(dec("1000"))
	for _, amt := range []string{"1", "2", "3"} {
		_, err := s.Append(debit("Technical Bills", amt))
		require.NoError(t, err)
	}
	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, "L-003", list[0].ID)
	assert.Equal(t, "L-001", list[2].ID)

	// Restartable: mutating the returned slice does not touch the store.
	list[0].Remarks = "changed"
	assert.Equal(t, "bill", s.List()[0].Remarks)
}

func TestCheckpointRollback(t *testing.T) {
	s := NewStore(dec("1000"))
	e1, err := s.Append(debit("Technical Bills", "100"))
	require.NoError(t, err)

	cp := s.Checkpoint()
	_, err = s.Reverse(e1.ID)
	require.NoError(t, err)
	_, err = s.Append(debit("Technical Bills", "250"))
	require.NoError(t, err)

	s.Rollback(cp)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.CurrentBalance().Equal(dec("900")))
	got, _ := s.Get(e1.ID)
	assert.False(t, got.IsReversed(), "rollback clears reversal marks")

	// Sequence resumes where the checkpoint was taken.
	e2, err := s.Append(debit("Technical Bills", "1"))
	require.NoError(t, err)
	assert.Equal(t, "L-002", e2.ID)
	require.NoError(t, s.Verify())
}

func TestRestore(t *testing.T) {
	s := NewStore(dec("500000"))
	e, err := s.Append(debit("Technical Bills", "45000"))
	require.NoError(t, err)
	_, err = s.Reverse(e.ID)
	require.NoError(t, err)

	restored, err := Restore(dec("500000"), s.Entries())
	require.NoError(t, err)
	assert.True(t, restored.CurrentBalance().Equal(s.CurrentBalance()))

	next, err := restored.Append(debit("Technical Bills", "5"))
	require.NoError(t, err)
	assert.Equal(t, "L-003", next.ID)
}

func TestRestore_DetectsDrift(t *testing.T) {
	s := NewStore(dec("1000"))
	_, err := s.Append(debit("Technical Bills", "100"))
	require.NoError(t, err)
	entries := s.Entries()
	entries[0].Balance = dec("950")

	_, err = Restore(dec("1000"), entries)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
}

func TestRestore_DetectsBrokenReversalLink(t *testing.T) {
	s := NewStore(dec("1000"))
	e, err := s.Append(debit("Technical Bills", "100"))
	require.NoError(t, err)
	_, err = s.Reverse(e.ID)
	require.NoError(t, err)
	entries := s.Entries()
	entries[0].ReversedBy = ""

	_, err = Restore(dec("1000"), entries)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
}

func TestRestore_DetectsDanglingReversedBy(t *testing.T) {
	s := NewStore(dec("500000"))
	e, err := s.Append(debit("Technical Bills", "45000"))
	require.NoError(t, err)
	other, err := s.Append(debit("Salary Bills", "100"))
	require.NoError(t, err)

	tests := map[string]string{
		"unknown entry":               "L-999",
		"entry that reverses nothing": other.ID,
	}
	for name, reversedBy := range tests {
		t.Run(name, func(t *testing.T) {
			entries := s.Entries()
			entries[0].ReversedBy = reversedBy
			_, err := Restore(dec("500000"), entries)
			assert.ErrorIs(t, err, model.ErrInconsistentState)
		})
	}

	entries := s.Entries()
	entries[0].ReversedBy = e.ID
	_, err = Restore(dec("500000"), entries)
	assert.ErrorIs(t, err, model.ErrInconsistentState, "an entry cannot reverse itself")
}

func TestBalanceIdentity(t *testing.T) {
	// currentBalance == opening - sum(live debits) + sum(top-ups)
	s := NewStore(dec("500000"))
	var live []model.LedgerEntry
	amounts := []string{"45000", "35000", "20000", "15000", "10430", "5000"}
	for i, amt := range amounts {
		e, err := s.Append(debit("Technical Bills", amt))
		require.NoError(t, err)
		live = append(live, e)
		if i%2 == 1 {
			_, err := s.Reverse(live[0].ID)
			require.NoError(t, err)
			live = live[1:]
		}
	}
	_, err := s.TopUp(date(2026, 2, 22), dec("100000"), "Q1 Top up")
	require.NoError(t, err)

	spent := decimal.Zero
	for _, e := range live {
		spent = spent.Add(e.Amount)
	}
	want := s.OpeningBalance().Sub(spent).Add(s.TopUpTotal())
	assert.True(t, s.CurrentBalance().Equal(want), "got %s want %s", s.CurrentBalance(), want)
}
