package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finad-dev/finad/internal/model"
)

func newPolicy(t *testing.T) *Policy {
	t.Helper()
	p, err := NewPolicy()
	require.NoError(t, err)
	return p
}

func TestCanAdmin(t *testing.T) {
	p := newPolicy(t)
	tests := []struct {
		role AdminRole
		op   Operation
		want bool
	}{
		{AdminCompany, OpDeleteExpense, true},
		{AdminCompany, OpEditExpense, true},
		{AdminCompany, OpManageCompanies, true},
		{AdminAccountant, OpAdd, true},
		{AdminAccountant, OpEditBudget, true},
		{AdminAccountant, OpDeleteExpense, false},
		{AdminAccountant, OpEditExpense, false},
		{AdminAccountant, OpManageDepartments, false},
		{AdminViewer, OpView, true},
		{AdminViewer, OpExport, true},
		{AdminViewer, OpAdd, false},
		{AdminViewer, OpEditBudget, false},
		{"Intern", OpView, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanAdmin(tt.role, tt.op))
		})
	}
}

func TestCanCompany(t *testing.T) {
	p := newPolicy(t)
	tests := []struct {
		role model.CompanyRole
		op   Operation
		want bool
	}{
		{model.CompanyOwner, OpViewBudget, true},
		{model.CompanyOwner, OpViewReports, true},
		{model.CompanyOwner, OpDeleteExpense, true},
		{model.CompanyOwner, OpEditBudget, false},
		{model.CompanyOwner, OpManageCompanies, false},
		{model.CompanyAccountant, OpAdd, true},
		{model.CompanyAccountant, OpView, true},
		{model.CompanyAccountant, OpViewBudget, false},
		{model.CompanyAccountant, OpViewReports, false},
		{model.CompanyAccountant, OpExport, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanCompany(tt.role, tt.op))
		})
	}
}

func TestRolesDoNotShareNames(t *testing.T) {
	p := newPolicy(t)
	// "Accountant" exists in both tables with different grants.
	assert.True(t, p.Can(Admin("ana", AdminAccountant), OpEditBudget))
	assert.False(t, p.Can(CompanyUser("ana", "comp-1", model.CompanyAccountant), OpEditBudget))
}

func TestRequire(t *testing.T) {
	p := newPolicy(t)
	assert.NoError(t, p.Require(Admin("root", AdminCompany), OpDeleteExpense))

	err := p.Require(Admin("v", AdminViewer), OpAdd)
	assert.ErrorIs(t, err, model.ErrForbidden)
	assert.Contains(t, err.Error(), "Viewer")

	assert.ErrorIs(t, p.Require(Principal{}, OpView), model.ErrForbidden)
}

func TestOperations(t *testing.T) {
	p := newPolicy(t)
	assert.Equal(t, []Operation{OpView, OpAdd}, p.Operations(CompanyUser("a", "comp-1", model.CompanyAccountant)))
	assert.Len(t, p.Operations(Admin("root", AdminCompany)), len(AllOperations))
}

func TestParseRoles(t *testing.T) {
	r, err := ParseAdminRole("viewer")
	require.NoError(t, err)
	assert.Equal(t, AdminViewer, r)

	_, err = ParseAdminRole("boss")
	assert.ErrorIs(t, err, model.ErrValidation)

	cr, err := ParseCompanyRole("owner")
	require.NoError(t, err)
	assert.Equal(t, model.CompanyOwner, cr)

	cr, err = ParseCompanyRole("Accountant")
	require.NoError(t, err)
	assert.Equal(t, model.CompanyAccountant, cr)
}
