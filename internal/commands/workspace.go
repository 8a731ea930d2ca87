package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
	"github.com/finad-dev/finad/internal/config"
	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/logging"
	"github.com/finad-dev/finad/internal/remote"
	"github.com/finad-dev/finad/internal/session"
	"github.com/finad-dev/finad/internal/store"
)

// workspace is one CLI invocation's view of a finad directory.
type workspace struct {
	root      string
	cfg       *config.Config
	log       *zap.Logger
	sess      *session.Session
	principal access.Principal
	closers   []io.Closer
	stderr    io.Writer
}

func openWorkspace(cmd *cobra.Command, g *globals) (*workspace, error) {
	root, err := filepath.Abs(g.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s is not a finad workspace (run finad init)", root)
	}
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}
	log, err := logging.New(level)
	if err != nil {
		return nil, err
	}

	w := &workspace{root: root, cfg: cfg, log: log, stderr: cmd.ErrOrStderr()}

	snap, err := store.Load(root)
	if err != nil {
		return nil, fmt.Errorf("loading books: %w", err)
	}
	w.sess, err = session.FromSnapshot(snap, session.Options{
		Logger:      log,
		Syncer:      w.syncer(cmd.Context()),
		SyncTimeout: cfg.Sync.Timeout,
		OnSyncError: func(err error) {
			fmt.Fprintf(w.stderr, "warning: %v (saved locally)\n", err)
		},
	})
	if err != nil {
		w.closeAll()
		return nil, fmt.Errorf("loading books: %w", err)
	}

	if err := w.resolvePrincipal(g); err != nil {
		return nil, w.finish(err, "")
	}
	return w, nil
}

// syncer builds the remote collaborators named in finad.yaml. An unreachable
// redis is logged and skipped.
func (w *workspace) syncer(ctx context.Context) remote.Syncer {
	var targets remote.Multi
	if url := w.cfg.Sync.SheetsURL; url != "" {
		targets = append(targets, remote.NewSheetsClient(url, nil))
	}
	if addr := w.cfg.Sync.RedisAddr; addr != "" {
		ctx, cancel := context.WithTimeout(ctx, w.cfg.Sync.Timeout)
		defer cancel()
		a, err := remote.DialRedis(ctx, addr, w.cfg.Sync.RedisPassword, w.cfg.Sync.RedisDB)
		if err != nil {
			w.log.Warn("redis archive unavailable", zap.String("addr", addr), zap.Error(err))
		} else {
			targets = append(targets, a)
			w.closers = append(w.closers, a)
		}
	}
	if len(targets) == 0 {
		return remote.Nop{}
	}
	return targets
}

func (w *workspace) resolvePrincipal(g *globals) error {
	if g.login != "" {
		password := g.password
		if password == "" {
			password = os.Getenv("FINAD_PASSWORD")
		}
		p, err := w.sess.Authenticate(g.login, password)
		if err != nil {
			return err
		}
		w.principal = p
		return nil
	}

	roleName := g.role
	if roleName == "" {
		roleName = w.cfg.Session.DefaultRole
	}
	role, err := access.ParseAdminRole(roleName)
	if err != nil {
		return err
	}
	name := g.user
	if name == "" {
		name = w.cfg.Session.User
	}
	w.principal = access.Admin(name, role)
	return nil
}

// finish persists the outcome of a command. The audit trail is always
// appended; the books are saved and committed only when err is nil and
// message names a change.
func (w *workspace) finish(err error, message string) error {
	defer w.closeAll()

	if aerr := auditlog.Append(w.root, w.sess.AuditTrail()); aerr != nil {
		w.log.Error("writing audit log", zap.Error(aerr))
		err = errors.Join(err, aerr)
	}
	if err != nil || message == "" {
		return err
	}

	if err := store.Save(w.root, w.sess.Snapshot()); err != nil {
		return fmt.Errorf("saving books: %w", err)
	}
	if w.cfg.Git.AutoCommit && gitops.IsRepo(w.root) {
		author := gitops.Author{Name: w.cfg.Git.AuthorName, Email: w.cfg.Git.AuthorEmail}
		hash, err := gitops.CommitAll(w.root, message, author)
		if err != nil {
			return fmt.Errorf("committing: %w", err)
		}
		w.log.Debug("committed", zap.String("hash", hash), zap.String("message", message))
	}
	return nil
}

func (w *workspace) closeAll() {
	for _, c := range w.closers {
		_ = c.Close()
	}
	w.closers = nil
	_ = w.log.Sync()
}
