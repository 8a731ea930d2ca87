package expense

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/ledger"
	"github.com/finad-dev/finad/internal/model"
)

type mockDepartments map[string]bool

func (m mockDepartments) Exists(label string) bool { return m[label] }

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

func ptr[T any](v T) *T { return &v }

func newRepo() (*Repository, *ledger.Store, mockDepartments) {
	l := ledger.NewStore(dec("500000"))
	depts := mockDepartments{"Technical Bills": true, "Marketing Bills": true, "Salary Bills": true}
	return NewRepository(l, depts), l, depts
}

func aws() BillInput {
	return BillInput{
		Date:        "2026-02-23",
		Department:  "Technical Bills",
		Description: "AWS Cloud Hosting - Jan",
		Amount:      dec("45000"),
		Status:      model.StatusPaid,
	}
}

func TestAdd(t *testing.T) {
	r, l, _ := newRepo()

	e, err := r.Add(aws())
	require.NoError(t, err)
	assert.Equal(t, "EXP-001", e.ID)
	assert.Equal(t, "L-001", e.LedgerEntryID)
	assert.Equal(t, date(2026, 2, 23), e.Date)
	assert.Equal(t, DefaultUploader, e.Uploader)

	assert.True(t, l.CurrentBalance().Equal(dec("455000")))
	entry, ok := l.Get(e.LedgerEntryID)
	require.True(t, ok)
	assert.Equal(t, model.Debit, entry.Type)
	assert.Equal(t, "AWS Cloud Hosting - Jan", entry.Remarks)
	assert.Equal(t, "Technical Bills", entry.Department)
	require.NoError(t, r.Verify())
}

func TestAdd_DefaultStatus(t *testing.T) {
	r, _, _ := newRepo()
	in := aws()
	in.Status = ""
	e, err := r.Add(in)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, e.Status)
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*BillInput)
		field string
	}{
		{"missing date", func(in *BillInput) { in.Date = "" }, "date"},
		{"bad date", func(in *BillInput) { in.Date = "02/23/2026" }, "date"},
		{"missing department", func(in *BillInput) { in.Department = "  " }, "department"},
		{"unknown department", func(in *BillInput) { in.Department = "Ghost Bills" }, "department"},
		{"missing description", func(in *BillInput) { in.Description = "" }, "description"},
		{"bad status", func(in *BillInput) { in.Status = "Lost" }, "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, l, _ := newRepo()
			in := aws()
			tt.edit(&in)

			_, err := r.Add(in)
			var verr model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 0, r.Len())
			assert.Equal(t, 0, l.Len())
		})
	}
}

func TestAdd_InvalidAmount(t *testing.T) {
	for _, amt := range []string{"0", "-10", "1.005"} {
		r, l, _ := newRepo()
		in := aws()
		in.Amount = dec(amt)
		_, err := r.Add(in)
		assert.ErrorIs(t, err, model.ErrInvalidAmount, amt)
		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 0, l.Len())
	}
}

func TestRemove_RestoresBalance(t *testing.T) {
	r, l, _ := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)

	require.NoError(t, r.Remove(e.ID))
	assert.True(t, l.CurrentBalance().Equal(dec("500000")))
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 2, l.Len())

	orig, _ := l.Get(e.LedgerEntryID)
	assert.True(t, orig.IsReversed())
	require.NoError(t, r.Verify())

	assert.ErrorIs(t, r.Remove(e.ID), model.ErrNotFound)
}

func TestRemove_IDsNotReused(t *testing.T) {
	r, _, _ := newRepo()
	_, err := r.Add(aws())
	require.NoError(t, err)
	e2, err := r.Add(aws())
	require.NoError(t, err)
	require.NoError(t, r.Remove(e2.ID))

	e3, err := r.Add(aws())
	require.NoError(t, err)
	assert.Equal(t, "EXP-003", e3.ID)
}

func TestRemove_InconsistentPairing(t *testing.T) {
	r, l, _ := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)

	// Reverse the paired entry behind the repository's back.
	_, err = l.Reverse(e.LedgerEntryID)
	require.NoError(t, err)
	before := l.Len()

	err = r.Remove(e.ID)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, before, l.Len())
}

func TestUpdate_NonLedgerFields(t *testing.T) {
	r, l, _ := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)

	got, err := r.Update(e.ID, BillPatch{
		Description: ptr("AWS Cloud Hosting - February"),
		Status:      ptr(model.StatusPending),
		Date:        ptr("2026-02-24"),
	})
	require.NoError(t, err)
	assert.Equal(t, "AWS Cloud Hosting - February", got.Description)
	assert.Equal(t, model.StatusPending, got.Status)
	assert.Equal(t, date(2026, 2, 24), got.Date)
	assert.Equal(t, e.LedgerEntryID, got.LedgerEntryID)
	assert.Equal(t, 1, l.Len())
}

func TestUpdate_AmountReversesAndRedebits(t *testing.T) {
	r, l, _ := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)

	got, err := r.Update(e.ID, BillPatch{Amount: ptr(dec("50000")), Department: ptr("Marketing Bills")})
	require.NoError(t, err)
	assert.Equal(t, "L-003", got.LedgerEntryID)
	assert.True(t, l.CurrentBalance().Equal(dec("450000")))

	entry, _ := l.Get(got.LedgerEntryID)
	assert.Equal(t, "Marketing Bills", entry.Department)
	assert.True(t, entry.Amount.Equal(dec("50000")))
	require.NoError(t, r.Verify())
}

func TestUpdate_FailureChangesNothing(t *testing.T) {
	r, l, _ := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)

	_, err = r.Update(e.ID, BillPatch{Amount: ptr(dec("-1"))})
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	_, err = r.Update(e.ID, BillPatch{Department: ptr("Ghost Bills")})
	assert.ErrorIs(t, err, model.ErrValidation)

	got, _ := r.Get(e.ID)
	assert.Equal(t, e, got)
	assert.Equal(t, 1, l.Len())

	_, err = r.Update("EXP-999", BillPatch{})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdate_KeepsRetiredDepartment(t *testing.T) {
	r, _, depts := newRepo()
	e, err := r.Add(aws())
	require.NoError(t, err)
	depts["Technical Bills"] = false

	got, err := r.Update(e.ID, BillPatch{Status: ptr(model.StatusRejected)})
	require.NoError(t, err)
	assert.Equal(t, "Technical Bills", got.Department)
}

func TestList(t *testing.T) {
	r, _, _ := newRepo()
	add := func(d, dept, desc, status string) {
		_, err := r.Add(BillInput{Date: d, Department: dept, Description: desc, Amount: dec("100"), Status: model.BillStatus(status)})
		require.NoError(t, err)
	}
	add("2026-01-05", "Technical Bills", "AWS Cloud Hosting - Jan", "Paid")
	add("2026-01-20", "Marketing Bills", "Google Ads", "Pending")
	add("2026-02-03", "Technical Bills", "GitHub seats", "Pending")
	add("2026-02-10", "Salary Bills", "Payroll Feb", "Paid")

	t.Run("most recent first", func(t *testing.T) {
		all := r.List(Filter{})
		require.Len(t, all, 4)
		assert.Equal(t, "EXP-004", all[0].ID)
		assert.Equal(t, "EXP-001", all[3].ID)
	})

	t.Run("search is case insensitive", func(t *testing.T) {
		got := r.List(Filter{Search: "aws"})
		require.Len(t, got, 1)
		assert.Equal(t, "AWS Cloud Hosting - Jan", got[0].Description)

		got = r.List(Filter{Search: "exp-002"})
		require.Len(t, got, 1)
		assert.Equal(t, "Google Ads", got[0].Description)
	})

	t.Run("conjunction", func(t *testing.T) {
		got := r.List(Filter{Department: "Technical Bills", Status: model.StatusPending})
		require.Len(t, got, 1)
		assert.Equal(t, "GitHub seats", got[0].Description)

		for _, e := range r.List(Filter{}) {
			want := e.Department == "Technical Bills" && e.Status == model.StatusPending
			assert.Equal(t, want, Filter{Department: "Technical Bills", Status: model.StatusPending}.Match(e))
		}
	})

	t.Run("date range inclusive", func(t *testing.T) {
		got := r.List(Filter{From: date(2026, 1, 20), To: date(2026, 2, 3)})
		require.Len(t, got, 2)
		assert.Equal(t, "GitHub seats", got[0].Description)
		assert.Equal(t, "Google Ads", got[1].Description)

		assert.Len(t, r.List(Filter{From: date(2026, 2, 1)}), 2)
		assert.Len(t, r.List(Filter{To: date(2026, 1, 31)}), 2)
	})
}

func TestRestore(t *testing.T) {
	r, l, depts := newRepo()
	e1, err := r.Add(aws())
	require.NoError(t, err)
	e2, err := r.Add(aws())
	require.NoError(t, err)
	require.NoError(t, r.Remove(e2.ID))

	restored := NewRepository(l, depts)
	require.NoError(t, restored.Restore(r.All(), r.NextSeq()))
	assert.Equal(t, 1, restored.Len())
	got, ok := restored.Get(e1.ID)
	require.True(t, ok)
	assert.Equal(t, e1, got)

	e3, err := restored.Add(aws())
	require.NoError(t, err)
	assert.Equal(t, "EXP-003", e3.ID)
}

func TestRestore_DetectsUnpairedBill(t *testing.T) {
	r, _, depts := newRepo()
	_, err := r.Add(aws())
	require.NoError(t, err)

	fresh := NewRepository(ledger.NewStore(dec("500000")), depts)
	err = fresh.Restore(r.All(), r.NextSeq())
	assert.ErrorIs(t, err, model.ErrInconsistentState)
}

func TestRestore_DetectsOrphanDebit(t *testing.T) {
	r, l, depts := newRepo()
	_, err := r.Add(aws())
	require.NoError(t, err)

	fresh := NewRepository(l, depts)
	err = fresh.Restore(nil, 1)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
}
