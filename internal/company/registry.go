// Package company keeps the roster of client companies and their portal
// credentials.
package company

import (
	"fmt"
	"strings"
	"sync"

	"github.com/finad-dev/finad/internal/auth"
	"github.com/finad-dev/finad/internal/id"
	"github.com/finad-dev/finad/internal/model"
	"github.com/finad-dev/finad/internal/validate"
)

// DefaultFinancialYear is used when a company is added without one.
const DefaultFinancialYear = "2025-2026"

// ErrInvalidCredentials is returned by Authenticate for any login failure.
var ErrInvalidCredentials = fmt.Errorf("%w: invalid login or password", model.ErrForbidden)

// unknownLoginHash is verified against when no company matches a login so
// unknown and known logins take the same time.
var unknownLoginHash = sync.OnceValue(func() string {
	h, err := auth.Hash("finad-unknown-login")
	if err != nil {
		panic(err)
	}
	return h
})

// Input holds the profile fields of a company.
type Input struct {
	Name            string            `json:"name" validate:"required,max=200"`
	Address         string            `json:"address"`
	Phone           string            `json:"phone"`
	Email           string            `json:"email" validate:"omitempty,email"`
	Industry        string            `json:"industry"`
	FinancialYear   string            `json:"financial_year"`
	AccountantName  string            `json:"accountant_name"`
	AccountantEmail string            `json:"accountant_email" validate:"omitempty,email"`
	AccountantPhone string            `json:"accountant_phone"`
	AccountantRole  string            `json:"accountant_role" validate:"max=100"`
	CompanyRole     model.CompanyRole `json:"company_role" validate:"omitempty,oneof='Company Owner' Accountant"`
}

// Patch holds profile fields to change. Nil fields are left alone.
type Patch struct {
	Name            *string
	Address         *string
	Phone           *string
	Email           *string
	Industry        *string
	FinancialYear   *string
	AccountantName  *string
	AccountantEmail *string
	AccountantPhone *string
	AccountantRole  *string
}

// Registry holds companies in insertion order and tracks the active one.
type Registry struct {
	companies []model.Company
	active    string
	newID     func() string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{newID: id.NewCompanyID}
}

// Restore replaces the registry contents with persisted companies. An
// unknown active id falls back to the first company.
func (r *Registry) Restore(companies []model.Company, active string) error {
	seen := make(map[string]bool, len(companies))
	for _, c := range companies {
		if seen[c.ID] {
			return model.InconsistentError("duplicate company %s", c.ID)
		}
		seen[c.ID] = true
	}
	r.companies = append([]model.Company(nil), companies...)
	switch {
	case seen[active]:
		r.active = active
	case len(r.companies) > 0:
		r.active = r.companies[0].ID
	default:
		r.active = ""
	}
	return nil
}

// Add registers a company. The first company added becomes active.
func (r *Registry) Add(in Input) (model.Company, error) {
	in = trim(in)
	if err := validate.Struct(in); err != nil {
		return model.Company{}, err
	}
	c := model.Company{
		ID:              r.newID(),
		Name:            in.Name,
		Address:         in.Address,
		Phone:           in.Phone,
		Email:           in.Email,
		Industry:        in.Industry,
		FinancialYear:   in.FinancialYear,
		AccountantName:  in.AccountantName,
		AccountantEmail: in.AccountantEmail,
		AccountantPhone: in.AccountantPhone,
		AccountantRole:  in.AccountantRole,
		CompanyRole:     in.CompanyRole,
	}
	if c.FinancialYear == "" {
		c.FinancialYear = DefaultFinancialYear
	}
	if c.CompanyRole == "" {
		c.CompanyRole = model.CompanyOwner
	}
	r.companies = append(r.companies, c)
	if r.active == "" {
		r.active = c.ID
	}
	return c, nil
}

// Update applies a profile patch.
func (r *Registry) Update(companyID string, p Patch) (model.Company, error) {
	i := r.index(companyID)
	if i < 0 {
		return model.Company{}, model.NotFoundError("company", companyID)
	}
	c := r.companies[i]
	in := inputFrom(c)
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&in.Name, p.Name)
	set(&in.Address, p.Address)
	set(&in.Phone, p.Phone)
	set(&in.Email, p.Email)
	set(&in.Industry, p.Industry)
	set(&in.FinancialYear, p.FinancialYear)
	set(&in.AccountantName, p.AccountantName)
	set(&in.AccountantEmail, p.AccountantEmail)
	set(&in.AccountantPhone, p.AccountantPhone)
	set(&in.AccountantRole, p.AccountantRole)

	in = trim(in)
	if err := validate.Struct(in); err != nil {
		return model.Company{}, err
	}
	c.Name, c.Address, c.Phone, c.Email = in.Name, in.Address, in.Phone, in.Email
	c.Industry, c.FinancialYear = in.Industry, in.FinancialYear
	c.AccountantName, c.AccountantEmail, c.AccountantPhone = in.AccountantName, in.AccountantEmail, in.AccountantPhone
	c.AccountantRole = in.AccountantRole
	if c.FinancialYear == "" {
		c.FinancialYear = DefaultFinancialYear
	}
	r.companies[i] = c
	return c, nil
}

// Remove deletes a company. If it was active, the first remaining company
// becomes active, or none when the roster is empty.
func (r *Registry) Remove(companyID string) error {
	i := r.index(companyID)
	if i < 0 {
		return model.NotFoundError("company", companyID)
	}
	r.companies = append(r.companies[:i], r.companies[i+1:]...)
	if r.active == companyID {
		r.active = ""
		if len(r.companies) > 0 {
			r.active = r.companies[0].ID
		}
	}
	return nil
}

// SetActive selects the company single-tenant views operate on.
func (r *Registry) SetActive(companyID string) error {
	if r.index(companyID) < 0 {
		return model.NotFoundError("company", companyID)
	}
	r.active = companyID
	return nil
}

// Active returns the active company.
func (r *Registry) Active() (model.Company, bool) {
	if i := r.index(r.active); i >= 0 {
		return r.companies[i], true
	}
	return model.Company{}, false
}

// ActiveID returns the active company id, empty when none.
func (r *Registry) ActiveID() string { return r.active }

// Get returns a company by id.
func (r *Registry) Get(companyID string) (model.Company, bool) {
	if i := r.index(companyID); i >= 0 {
		return r.companies[i], true
	}
	return model.Company{}, false
}

// List returns every company in insertion order.
func (r *Registry) List() []model.Company {
	out := make([]model.Company, len(r.companies))
	copy(out, r.companies)
	return out
}

// SetCredentials configures a company's portal login. Login ids are unique
// across companies without regard to case.
func (r *Registry) SetCredentials(companyID, loginID, password string, role model.CompanyRole) (model.Company, error) {
	i := r.index(companyID)
	if i < 0 {
		return model.Company{}, model.NotFoundError("company", companyID)
	}
	loginID = strings.TrimSpace(loginID)
	if loginID == "" {
		return model.Company{}, model.ValidationError{Field: "login_id", Reason: "is required"}
	}
	for j, c := range r.companies {
		if j != i && strings.EqualFold(c.LoginID, loginID) {
			return model.Company{}, model.ValidationError{Field: "login_id", Reason: "is already used by " + c.Name}
		}
	}
	if role == "" {
		role = r.companies[i].CompanyRole
	}
	if role != model.CompanyOwner && role != model.CompanyAccountant {
		return model.Company{}, model.ValidationError{Field: "company_role", Reason: fmt.Sprintf("unknown role %q", role)}
	}
	hash, err := auth.Hash(password)
	if err != nil {
		return model.Company{}, err
	}

	r.companies[i].LoginID = loginID
	r.companies[i].PasswordHash = hash
	r.companies[i].CompanyRole = role
	return r.companies[i], nil
}

// Authenticate finds the company whose login matches and checks the password.
func (r *Registry) Authenticate(loginID, password string) (model.Company, error) {
	loginID = strings.TrimSpace(loginID)
	for _, c := range r.companies {
		if c.HasCredentials() && strings.EqualFold(c.LoginID, loginID) {
			if auth.Verify(password, c.PasswordHash) {
				return c, nil
			}
			return model.Company{}, ErrInvalidCredentials
		}
	}
	auth.Verify(password, unknownLoginHash())
	return model.Company{}, ErrInvalidCredentials
}

func (r *Registry) index(companyID string) int {
	if companyID == "" {
		return -1
	}
	for i, c := range r.companies {
		if c.ID == companyID {
			return i
		}
	}
	return -1
}

func inputFrom(c model.Company) Input {
	return Input{
		Name:            c.Name,
		Address:         c.Address,
		Phone:           c.Phone,
		Email:           c.Email,
		Industry:        c.Industry,
		FinancialYear:   c.FinancialYear,
		AccountantName:  c.AccountantName,
		AccountantEmail: c.AccountantEmail,
		AccountantPhone: c.AccountantPhone,
		AccountantRole:  c.AccountantRole,
		CompanyRole:     c.CompanyRole,
	}
}

func trim(in Input) Input {
	for _, s := range []*string{
		&in.Name, &in.Address, &in.Phone, &in.Email, &in.Industry, &in.FinancialYear,
		&in.AccountantName, &in.AccountantEmail, &in.AccountantPhone, &in.AccountantRole,
	} {
		*s = strings.TrimSpace(*s)
	}
	return in
}
