// Package session is the application state for one workspace: every store,
// the access policy in front of them, and the collaborators notified after
// a change. All methods are safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/aggregate"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/budget"
	"github.com/finad-dev/finad/internal/company"
	"github.com/finad-dev/finad/internal/department"
	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/ledger"
	"github.com/finad-dev/finad/internal/model"
	"github.com/finad-dev/finad/internal/remote"
	"github.com/finad-dev/finad/internal/store"
)

// DefaultSyncTimeout bounds each remote sync call.
const DefaultSyncTimeout = 5 * time.Second

// Options configures a Session. Zero values get defaults.
type Options struct {
	Logger      *zap.Logger
	Policy      *access.Policy
	Syncer      remote.Syncer
	SyncTimeout time.Duration
	// OnSyncError is called after a remote sync fails. Local state is kept.
	OnSyncError func(error)
	Now         func() time.Time
}

// Session owns the stores of one workspace. A single mutex covers every
// store so a reader never sees a bill without its ledger entry.
type Session struct {
	mu          sync.Mutex
	ledger      *ledger.Store
	budgets     *budget.Allocator
	departments *department.Catalogue
	expenses    *expense.Repository
	companies   *company.Registry
	engine      *aggregate.Engine
	audit       []auditlog.Entry

	policy      *access.Policy
	syncer      remote.Syncer
	syncTimeout time.Duration
	onSyncError func(error)
	log         *zap.Logger
	now         func() time.Time
}

// New starts a fresh workspace with the default departments and budgets.
func New(opening decimal.Decimal, opts Options) (*Session, error) {
	snap := store.Snapshot{
		OpeningBalance: opening,
		TotalBudget:    opening,
		Departments:    department.DefaultCatalogue(),
		Budgets:        department.DefaultBudgets(),
		NextExpenseSeq: 1,
	}
	return FromSnapshot(snap, opts)
}

// FromSnapshot rebuilds a session from persisted state. The ledger is
// verified and every bill must pair with a live ledger entry.
func FromSnapshot(snap store.Snapshot, opts Options) (*Session, error) {
	s := &Session{
		syncer:      opts.Syncer,
		syncTimeout: opts.SyncTimeout,
		onSyncError: opts.OnSyncError,
		log:         opts.Logger,
		now:         opts.Now,
		policy:      opts.Policy,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	s.log = s.log.Named("session")
	if s.syncer == nil {
		s.syncer = remote.Nop{}
	}
	if s.syncTimeout <= 0 {
		s.syncTimeout = DefaultSyncTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.policy == nil {
		p, err := access.NewPolicy()
		if err != nil {
			return nil, err
		}
		s.policy = p
	}

	l, err := ledger.Restore(snap.OpeningBalance, snap.Ledger)
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	s.ledger = l

	total := snap.TotalBudget
	if !total.IsPositive() {
		total = snap.OpeningBalance
	}
	s.budgets = budget.NewAllocator(total)
	for label, amt := range snap.Budgets {
		if err := s.budgets.SetDepartmentBudget(label, amt); err != nil {
			return nil, fmt.Errorf("loading budgets: %w", err)
		}
	}

	s.departments = department.NewCatalogue(snap.Departments)
	for _, d := range s.departments.All() {
		s.budgets.Ensure(d.Label)
	}

	s.expenses = expense.NewRepository(s.ledger, s.departments)
	if err := s.expenses.Restore(snap.Expenses, snap.NextExpenseSeq); err != nil {
		return nil, fmt.Errorf("loading bills: %w", err)
	}

	s.companies = company.NewRegistry()
	if err := s.companies.Restore(snap.Companies, snap.ActiveCompany); err != nil {
		return nil, fmt.Errorf("loading companies: %w", err)
	}

	s.engine = aggregate.NewEngine(s.expenses, s.budgets, s.departments)
	return s, nil
}

// Snapshot returns the persistable state.
func (s *Session) Snapshot() store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return store.Snapshot{
		OpeningBalance: s.ledger.OpeningBalance(),
		TotalBudget:    s.budgets.Total(),
		Departments:    s.departments.All(),
		Budgets:        s.budgets.All(),
		Ledger:         s.ledger.Entries(),
		Expenses:       s.expenses.All(),
		NextExpenseSeq: s.expenses.NextSeq(),
		Companies:      s.companies.List(),
		ActiveCompany:  s.companies.ActiveID(),
	}
}

// AuditTrail returns the actions recorded since the session started.
func (s *Session) AuditTrail() []auditlog.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auditlog.Entry, len(s.audit))
	copy(out, s.audit)
	return out
}

// Policy returns the access policy the session enforces.
func (s *Session) Policy() *access.Policy { return s.policy }

// authorize checks p against op and records a denial. Company principals
// must also belong to a company that still exists. Callers hold s.mu.
func (s *Session) authorize(p access.Principal, op access.Operation, action string) error {
	err := s.policy.Require(p, op)
	if err == nil && p.Kind == access.KindCompany {
		if _, ok := s.companies.Get(p.CompanyID); !ok {
			err = fmt.Errorf("company %q no longer exists: %w", p.CompanyID, model.ErrForbidden)
		}
	}
	if err != nil {
		s.log.Warn("permission denied",
			zap.Stringer("principal", p),
			zap.String("operation", string(op)),
			zap.String("action", action))
		s.record(p, action, "", auditlog.Denied, err.Error())
	}
	return err
}

// record appends an audit entry. Callers hold s.mu.
func (s *Session) record(p access.Principal, action, target string, outcome auditlog.Outcome, details string) {
	s.audit = append(s.audit, auditlog.Entry{
		Timestamp: s.now(),
		Principal: principalName(p),
		Role:      p.Role(),
		Action:    action,
		Target:    target,
		Outcome:   outcome,
		Details:   details,
	})
}

// RejectInput records an action whose input could not be parsed before it
// reached the session. It returns cause, or the denial when p may not perform
// op at all.
func (s *Session) RejectInput(p access.Principal, op access.Operation, action, target string, cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.authorize(p, op, action); err != nil {
		return err
	}
	return s.fail(p, action, target, cause)
}

// fail records a mutation that was allowed but rejected by a store. Callers
// hold s.mu.
func (s *Session) fail(p access.Principal, action, target string, err error) error {
	if errors.Is(err, model.ErrInconsistentState) {
		s.log.Error("invariant violated", zap.String("action", action), zap.String("target", target), zap.Error(err))
	} else {
		s.log.Debug("action rejected", zap.String("action", action), zap.Error(err))
	}
	s.record(p, action, target, auditlog.Failed, err.Error())
	return err
}

func principalName(p access.Principal) string {
	if p.Name != "" {
		return p.Name
	}
	return p.String()
}

func (s *Session) syncBill(ctx context.Context, e model.Expense) {
	ctx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()
	if err := s.syncer.SyncBill(ctx, e); err != nil {
		s.log.Warn("remote bill sync failed", zap.String("bill", e.ID), zap.Error(err))
		s.reportSync(fmt.Errorf("syncing bill %s: %w", e.ID, err))
	}
}

func (s *Session) syncBudget(ctx context.Context, c remote.BudgetChange) {
	ctx, cancel := context.WithTimeout(ctx, s.syncTimeout)
	defer cancel()
	if err := s.syncer.SyncBudget(ctx, c); err != nil {
		s.log.Warn("remote budget sync failed", zap.String("department", c.Department), zap.Error(err))
		s.reportSync(fmt.Errorf("syncing budget: %w", err))
	}
}

func (s *Session) reportSync(err error) {
	if s.onSyncError != nil {
		s.onSyncError(err)
	}
}
