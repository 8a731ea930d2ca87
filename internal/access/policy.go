// Package access maps roles to the operations they may perform. Admin users
// and company portal logins are checked against separate tables.
package access

import (
	_ "embed"
	"fmt"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"

	"github.com/finad-dev/finad/internal/model"
)

//go:embed model.conf
var modelText string

var adminPolicies = map[AdminRole][]Operation{
	AdminCompany: {
		OpView, OpAdd, OpEditExpense, OpEditBudget, OpDeleteExpense, OpExport, OpViewBudget, OpViewReports,
		OpManageDepartments, OpManageCompanies,
	},
	AdminAccountant: {OpView, OpAdd, OpEditBudget, OpExport, OpViewBudget, OpViewReports},
	AdminViewer:     {OpView, OpExport, OpViewBudget, OpViewReports},
}

var companyPolicies = map[model.CompanyRole][]Operation{
	model.CompanyOwner:      {OpView, OpAdd, OpEditExpense, OpDeleteExpense, OpExport, OpViewBudget, OpViewReports},
	model.CompanyAccountant: {OpView, OpAdd},
}

// Policy answers permission questions. The tables are fixed at construction.
type Policy struct {
	admin   *casbin.SyncedEnforcer
	company *casbin.SyncedEnforcer
}

// NewPolicy builds the two role tables.
func NewPolicy() (*Policy, error) {
	admin, err := newEnforcer(policyRows(adminPolicies))
	if err != nil {
		return nil, fmt.Errorf("building admin policy: %w", err)
	}
	company, err := newEnforcer(policyRows(companyPolicies))
	if err != nil {
		return nil, fmt.Errorf("building company policy: %w", err)
	}
	return &Policy{admin: admin, company: company}, nil
}

func policyRows[R ~string](table map[R][]Operation) [][]string {
	var rows [][]string
	for role, ops := range table {
		for _, op := range ops {
			rows = append(rows, []string{string(role), string(op)})
		}
	}
	return rows
}

func newEnforcer(rows [][]string) (*casbin.SyncedEnforcer, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if _, err := e.AddPolicies(rows); err != nil {
		return nil, err
	}
	return e, nil
}

// CanAdmin reports whether an admin role may perform op.
func (p *Policy) CanAdmin(role AdminRole, op Operation) bool {
	ok, err := p.admin.Enforce(string(role), string(op))
	return err == nil && ok
}

// CanCompany reports whether a company role may perform op.
func (p *Policy) CanCompany(role model.CompanyRole, op Operation) bool {
	ok, err := p.company.Enforce(string(role), string(op))
	return err == nil && ok
}

// Can reports whether the principal may perform op. A principal of unknown
// kind may do nothing.
func (p *Policy) Can(pr Principal, op Operation) bool {
	switch pr.Kind {
	case KindAdmin:
		return p.CanAdmin(pr.AdminRole, op)
	case KindCompany:
		return p.CanCompany(pr.CompanyRole, op)
	default:
		return false
	}
}

// Require returns an error wrapping model.ErrForbidden unless the principal
// may perform op.
func (p *Policy) Require(pr Principal, op Operation) error {
	if p.Can(pr, op) {
		return nil
	}
	return fmt.Errorf("%s may not %s: %w", pr, op, model.ErrForbidden)
}

// Operations lists what a principal may do, in a fixed order.
func (p *Policy) Operations(pr Principal) []Operation {
	var out []Operation
	for _, op := range AllOperations {
		if p.Can(pr, op) {
			out = append(out, op)
		}
	}
	return out
}

// AllOperations lists every operation in display order.
var AllOperations = []Operation{
	OpView, OpAdd, OpEditExpense, OpEditBudget, OpDeleteExpense, OpExport, OpViewBudget, OpViewReports,
	OpManageDepartments, OpManageCompanies,
}
