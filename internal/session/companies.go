package session

import (
	"errors"

	"go.uber.org/zap"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/company"
	"github.com/finad-dev/finad/internal/model"
)

// AddCompany registers a client company.
func (s *Session) AddCompany(p access.Principal, in company.Input) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.add"
	if err := s.authorize(p, access.OpManageCompanies, action); err != nil {
		return model.Company{}, err
	}
	c, err := s.companies.Add(in)
	if err != nil {
		return model.Company{}, s.fail(p, action, in.Name, err)
	}
	s.record(p, action, c.ID, auditlog.Allowed, c.Name)
	return c, nil
}

// UpdateCompany edits a company profile.
func (s *Session) UpdateCompany(p access.Principal, companyID string, patch company.Patch) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.update"
	if err := s.authorize(p, access.OpManageCompanies, action); err != nil {
		return model.Company{}, err
	}
	c, err := s.companies.Update(companyID, patch)
	if err != nil {
		return model.Company{}, s.fail(p, action, companyID, err)
	}
	s.record(p, action, c.ID, auditlog.Allowed, "")
	return c, nil
}

// RemoveCompany deletes a company.
func (s *Session) RemoveCompany(p access.Principal, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.remove"
	if err := s.authorize(p, access.OpManageCompanies, action); err != nil {
		return err
	}
	if err := s.companies.Remove(companyID); err != nil {
		return s.fail(p, action, companyID, err)
	}
	s.record(p, action, companyID, auditlog.Allowed, "active is now "+s.companies.ActiveID())
	return nil
}

// SetActiveCompany selects the company single-tenant views use.
func (s *Session) SetActiveCompany(p access.Principal, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.use"
	if err := s.authorize(p, access.OpManageCompanies, action); err != nil {
		return err
	}
	if err := s.companies.SetActive(companyID); err != nil {
		return s.fail(p, action, companyID, err)
	}
	s.record(p, action, companyID, auditlog.Allowed, "")
	return nil
}

// ActiveCompany returns the company the principal works in: its own company
// for a portal login, the selected one for an admin.
func (s *Session) ActiveCompany(p access.Principal) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "company.active"); err != nil {
		return model.Company{}, err
	}
	if p.Kind == access.KindCompany {
		c, _ := s.companies.Get(p.CompanyID)
		return c, nil
	}
	c, ok := s.companies.Active()
	if !ok {
		return model.Company{}, model.NotFoundError("company", "active")
	}
	return c, nil
}

// Companies lists every company.
func (s *Session) Companies(p access.Principal) ([]model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpManageCompanies, "company.list"); err != nil {
		return nil, err
	}
	return s.companies.List(), nil
}

// SetCredentials configures a company's portal login.
func (s *Session) SetCredentials(p access.Principal, companyID, loginID, password string, role model.CompanyRole) (model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.credentials"
	if err := s.authorize(p, access.OpManageCompanies, action); err != nil {
		return model.Company{}, err
	}
	c, err := s.companies.SetCredentials(companyID, loginID, password, role)
	if err != nil {
		return model.Company{}, s.fail(p, action, companyID, err)
	}
	s.record(p, action, companyID, auditlog.Allowed, "login "+c.LoginID)
	return c, nil
}

// Authenticate checks a portal login and returns the principal it acts as.
func (s *Session) Authenticate(loginID, password string) (access.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "company.login"
	c, err := s.companies.Authenticate(loginID, password)
	if err != nil {
		anon := access.Principal{Kind: access.KindCompany, Name: loginID}
		if errors.Is(err, model.ErrForbidden) {
			s.log.Warn("login failed", zap.String("login", loginID))
			s.record(anon, action, "", auditlog.Denied, err.Error())
		}
		return access.Principal{}, err
	}
	p := access.CompanyUser(c.LoginID, c.ID, c.CompanyRole)
	s.record(p, action, c.ID, auditlog.Allowed, "")
	return p, nil
}
