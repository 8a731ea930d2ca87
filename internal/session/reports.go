package session

import (
	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
)

// AuthorizeReport checks that p may view and export reports and records the
// export of kind.
func (s *Session) AuthorizeReport(p access.Principal, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	const action = "report.export"
	for _, op := range []access.Operation{access.OpViewReports, access.OpExport} {
		if err := s.authorize(p, op, action); err != nil {
			return err
		}
	}
	s.record(p, action, kind, auditlog.Allowed, "")
	return nil
}
