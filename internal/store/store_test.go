package store

import (
	"os"
	"path/filepath"
	"strings"
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

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		OpeningBalance: dec("500000"),
		TotalBudget:    dec("500000"),
		Departments: []model.Department{
			{Label: "Technical Bills", Name: "Technical", Color: "#ff8c38"},
			{Label: "Travel Bills", Name: "Travel", Color: "#10b981", Retired: true},
		},
		Budgets: map[string]decimal.Decimal{
			"Technical Bills": dec("200000"),
			"Travel Bills":    dec("0"),
		},
		Ledger: []model.LedgerEntry{
			{ID: "L-001", Date: date("2026-02-23"), Department: "Technical Bills", Type: model.Debit,
				Amount: dec("45000"), Balance: dec("455000"), Remarks: "AWS, Jan", ReversedBy: "L-002"},
			{ID: "L-002", Date: date("2026-02-24"), Department: "Technical Bills", Type: model.Credit,
				Amount: dec("45000"), Balance: dec("500000"), Remarks: `Reversal of "L-001"`, ReversalOf: "L-001"},
			{ID: "L-003", Date: date("2026-02-24"), Department: "Technical Bills", Type: model.Debit,
				Amount: dec("44000.50"), Balance: dec("455999.50"), Remarks: "AWS, Jan"},
		},
		Expenses: []model.Expense{
			{ID: "EXP-002", Date: date("2026-02-23"), Department: "Technical Bills", Description: "AWS, Jan",
				Amount: dec("44000.50"), Status: model.StatusPending, Uploader: "Admin", LedgerEntryID: "L-003"},
		},
		NextExpenseSeq: 3,
		Companies: []model.Company{
			{ID: "comp-1", Name: "UNAI Technologies", Email: "ops@unai.example", FinancialYear: "2025-2026",
				LoginID: "unai", PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
				AccountantName: "Priya Sharma", AccountantRole: "Accountant / Finance Manager", CompanyRole: model.CompanyOwner},
		},
		ActiveCompany: "comp-1",
	}
}

func assertSnapshotEqual(t *testing.T, want, got Snapshot) {
	t.Helper()
	assert.True(t, want.OpeningBalance.Equal(got.OpeningBalance), "opening balance")
	assert.True(t, want.TotalBudget.Equal(got.TotalBudget), "total budget")
	assert.Equal(t, want.Departments, got.Departments)
	require.Len(t, got.Budgets, len(want.Budgets))
	for label, amt := range want.Budgets {
		assert.True(t, amt.Equal(got.Budgets[label]), label)
	}
	require.Len(t, got.Ledger, len(want.Ledger))
	for i := range want.Ledger {
		w, g := want.Ledger[i], got.Ledger[i]
		assert.True(t, w.Amount.Equal(g.Amount))
		assert.True(t, w.Balance.Equal(g.Balance))
		w.Amount, w.Balance, g.Amount, g.Balance = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
		assert.Equal(t, w, g)
	}
	require.Len(t, got.Expenses, len(want.Expenses))
	for i := range want.Expenses {
		w, g := want.Expenses[i], got.Expenses[i]
		assert.True(t, w.Amount.Equal(g.Amount))
		w.Amount, g.Amount = decimal.Zero, decimal.Zero
		assert.Equal(t, w, g)
	}
	assert.Equal(t, want.NextExpenseSeq, got.NextExpenseSeq)
	assert.Equal(t, want.Companies, got.Companies)
	assert.Equal(t, want.ActiveCompany, got.ActiveCompany)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	want := sampleSnapshot()

	require.NoError(t, Save(root, want))
	assert.True(t, Exists(root))

	got, err := Load(root)
	require.NoError(t, err)
	assertSnapshotEqual(t, want, got)
}

func TestSave_Overwrites(t *testing.T) {
	root := t.TempDir()
	snap := sampleSnapshot()
	require.NoError(t, Save(root, snap))

	snap.Expenses = nil
	snap.NextExpenseSeq = 9
	require.NoError(t, Save(root, snap))

	got, err := Load(root)
	require.NoError(t, err)
	assert.Empty(t, got.Expenses)
	assert.Equal(t, 9, got.NextExpenseSeq)

	entries, err := os.ReadDir(filepath.Join(root, Dir))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "."), "temp file %s left behind", e.Name())
	}
}

func TestSave_BudgetsFileLayout(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, sampleSnapshot()))

	data, err := os.ReadFile(Path(root, BudgetsFile))
	require.NoError(t, err)
	assert.Equal(t, "kind,department,amount\n"+
		"total,,500000.00\n"+
		"department,Technical Bills,200000.00\n"+
		"department,Travel Bills,0.00\n", string(data))
}

func TestLoad_NoWorkspace(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrNoWorkspace)
}

func TestLoad_BalanceDrift(t *testing.T) {
	root := t.TempDir()
	snap := sampleSnapshot()
	snap.Ledger[2].Balance = dec("1")
	require.NoError(t, Save(root, snap))

	_, err := Load(root)
	assert.ErrorIs(t, err, model.ErrInconsistentState)
	assert.ErrorContains(t, err, "ledger.csv")
}

func TestLoad_BadRows(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "bad status",
			file:    ExpensesFile,
			content: ExpensesHeader + "\nEXP-001,2026-02-23,Technical Bills,x,1.00,Lost,Admin,,L-001\n",
			wantErr: `unknown status "Lost"`,
		},
		{
			name:    "bad entry type",
			file:    LedgerFile,
			content: LedgerHeader + "\nL-001,2026-02-23,Technical Bills,Sideways,1.00,1.00,,,\n",
			wantErr: `unknown entry type "Sideways"`,
		},
		{
			name:    "wrong field count",
			file:    DepartmentsFile,
			content: DepartmentsHeader + "\nTechnical Bills,Technical\n",
			wantErr: "wrong number of fields",
		},
		{
			name:    "bad budget kind",
			file:    BudgetsFile,
			content: BudgetsHeader + "\nmonthly,Technical Bills,1.00\n",
			wantErr: `unknown budget kind "monthly"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			snap := sampleSnapshot()
			snap.Ledger, snap.Expenses = nil, nil
			require.NoError(t, Save(root, snap))
			require.NoError(t, os.WriteFile(Path(root, tt.file), []byte(tt.content), 0o644))

			_, err := Load(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMarshalExpense_QuotesCommas(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, Save(root, sampleSnapshot()))

	data, err := os.ReadFile(Path(root, ExpensesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"AWS, Jan"`)
}
