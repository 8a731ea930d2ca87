package access

import (
	"fmt"
	"strings"

	"github.com/finad-dev/finad/internal/model"
)

// Operation is a capability checked before a call is allowed through.
type Operation string

const (
	OpView          Operation = "view"
	OpAdd           Operation = "add"
	OpEditExpense   Operation = "edit-expense"
	OpEditBudget    Operation = "edit-budget"
	OpDeleteExpense Operation = "delete-expense"
	OpExport        Operation = "export"
	OpViewBudget    Operation = "view-budget"
	OpViewReports   Operation = "view-reports"

	OpManageDepartments Operation = "manage-departments"
	OpManageCompanies   Operation = "manage-companies"
)

// AdminRole is the role of an admin dashboard user.
type AdminRole string

const (
	AdminCompany    AdminRole = "Company"
	AdminAccountant AdminRole = "Accountant"
	AdminViewer     AdminRole = "Viewer"
)

// AdminRoles lists the admin roles.
var AdminRoles = []AdminRole{AdminCompany, AdminAccountant, AdminViewer}

// CompanyRoles lists the company portal roles.
var CompanyRoles = []model.CompanyRole{model.CompanyOwner, model.CompanyAccountant}

// ParseAdminRole matches an admin role name case-insensitively.
func ParseAdminRole(s string) (AdminRole, error) {
	for _, r := range AdminRoles {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", model.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown admin role %q", s)}
}

// ParseCompanyRole matches a company role name case-insensitively. "owner"
// is accepted for Company Owner.
func ParseCompanyRole(s string) (model.CompanyRole, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "owner") {
		return model.CompanyOwner, nil
	}
	for _, r := range CompanyRoles {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", model.ValidationError{Field: "role", Reason: fmt.Sprintf("unknown company role %q", s)}
}

// Kind tells which role table a Principal is checked against.
type Kind int

const (
	KindAdmin Kind = iota + 1
	KindCompany
)

// Principal is the actor behind a call: an admin user with an AdminRole, or
// a company portal login with a CompanyRole scoped to one company.
type Principal struct {
	Kind        Kind
	Name        string
	AdminRole   AdminRole
	CompanyRole model.CompanyRole
	CompanyID   string
}

// Admin returns an admin principal.
func Admin(name string, role AdminRole) Principal {
	return Principal{Kind: KindAdmin, Name: name, AdminRole: role}
}

// CompanyUser returns a company portal principal.
func CompanyUser(name, companyID string, role model.CompanyRole) Principal {
	return Principal{Kind: KindCompany, Name: name, CompanyRole: role, CompanyID: companyID}
}

// Role returns the principal's role name.
func (p Principal) Role() string {
	if p.Kind == KindCompany {
		return string(p.CompanyRole)
	}
	return string(p.AdminRole)
}

func (p Principal) String() string {
	switch p.Kind {
	case KindAdmin:
		return fmt.Sprintf("admin %s (%s)", p.Name, p.AdminRole)
	case KindCompany:
		return fmt.Sprintf("company %s %s (%s)", p.CompanyID, p.Name, p.CompanyRole)
	default:
		return "anonymous"
	}
}
