package commands

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/auditlog"
)

func newAuditCommand(g *globals) *cobra.Command {
	var limit int
	var outcome string

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log, most recent last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			if err := w.sess.Policy().Require(w.principal, access.OpViewReports); err != nil {
				return w.finish(err, "")
			}
			// Read before finish appends this invocation.
			entries, err := auditlog.Read(w.root)
			if err != nil {
				return w.finish(err, "")
			}

			var rows [][]string
			for _, e := range entries {
				if outcome != "" && string(e.Outcome) != outcome {
					continue
				}
				rows = append(rows, []string{
					e.Timestamp.Local().Format(time.DateTime),
					e.Principal,
					e.Role,
					e.Action,
					e.Target,
					string(e.Outcome),
					e.Details,
				})
			}
			if limit > 0 && len(rows) > limit {
				rows = rows[len(rows)-limit:]
			}
			err = printTable(cmd.OutOrStdout(), []string{"TIME", "WHO", "ROLE", "ACTION", "TARGET", "OUTCOME", "DETAILS"}, rows)
			return w.finish(err, "")
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "show at most this many entries (0 for all)")
	cmd.Flags().StringVar(&outcome, "outcome", "", "only "+strconv.Quote(string(auditlog.Allowed))+", "+
		strconv.Quote(string(auditlog.Denied))+" or "+strconv.Quote(string(auditlog.Failed)))
	return cmd
}
