package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/buildinfo"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	repo     string
	role     string
	user     string
	login    string
	password string
	logLevel string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:     "finad",
		Short:   "Expense ledger and department budgets",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.repo, "repo", ".", "workspace directory")
	pf.StringVar(&g.role, "role", "", "admin role to act as: Company, Accountant or Viewer (default from finad.yaml)")
	pf.StringVar(&g.user, "user", "", "name recorded as uploader and in the audit log")
	pf.StringVar(&g.login, "login", "", "company portal login; acts as that company's role")
	pf.StringVar(&g.password, "password", "", "company portal password (or FINAD_PASSWORD)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newInitCommand(),
		newBillCommand(g),
		newBudgetCommand(g),
		newLedgerCommand(g),
		newDepartmentCommand(g),
		newCompanyCommand(g),
		newReportCommand(g),
		newAuditCommand(g),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "finad "+buildinfo.String())
		},
	}
}
