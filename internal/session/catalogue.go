package session

import (
	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/model"
)

// AddDepartment registers a department with a zero budget.
func (s *Session) AddDepartment(p access.Principal, name, color string) (model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "department.add"
	if err := s.authorize(p, access.OpManageDepartments, action); err != nil {
		return model.Department{}, err
	}
	d, err := s.departments.Add(name, color)
	if err != nil {
		return model.Department{}, s.fail(p, action, name, err)
	}
	s.budgets.Ensure(d.Label)
	s.record(p, action, d.Label, auditlog.Allowed, "")
	return d, nil
}

// RemoveDepartment retires a department. Its bills and ledger entries keep
// their label.
func (s *Session) RemoveDepartment(p access.Principal, label string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "department.remove"
	if err := s.authorize(p, access.OpManageDepartments, action); err != nil {
		return err
	}
	if err := s.departments.Remove(label); err != nil {
		return s.fail(p, action, label, err)
	}
	s.record(p, action, label, auditlog.Allowed, "")
	return nil
}

// Departments returns the active departments. With all set, retired ones are
// included.
func (s *Session) Departments(p access.Principal, all bool) ([]model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, access.OpView, "department.list"); err != nil {
		return nil, err
	}
	if all {
		return s.departments.All(), nil
	}
	return s.departments.Active(), nil
}
