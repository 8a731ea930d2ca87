package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/config"
	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/session"
	"github.com/finad-dev/finad/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var opening string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finad workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, opening, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&opening, "opening-balance", "", "ledger opening balance (default 500000.00)")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, opening string, useGit bool) error {
	if store.Exists(dir) {
		return fmt.Errorf("%s already holds finad books", dir)
	}

	dirs := []string{
		store.Dir,
		"logs",
		"exports",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	if opening != "" {
		cfg.Ledger.OpeningBalance = opening
	}
	cfg.Git.AutoCommit = useGit
	balance, err := cfg.OpeningBalance()
	if err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Seed the default departments and budgets.
	sess, err := session.New(balance, session.Options{})
	if err != nil {
		return err
	}
	if err := store.Save(dir, sess.Snapshot()); err != nil {
		return fmt.Errorf("writing books: %w", err)
	}

	gitignore := "exports/\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	out := cmd.OutOrStdout()
	if !useGit {
		fmt.Fprintf(out, "Initialized finad workspace at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(dir, gitops.Message("init", "open books for %s", name), author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized finad workspace at %s (%s)\n", dir, hash)
	return nil
}
