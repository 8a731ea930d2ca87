package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/model"
)

func newLedgerCommand(g *globals) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and top up the ledger",
	}
	ledgerCmd.AddCommand(
		newLedgerListCommand(g),
		newLedgerBalanceCommand(g),
		newLedgerTopUpCommand(g),
		newLedgerVerifyCommand(g),
	)
	return ledgerCmd
}

func newLedgerListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List ledger entries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			entries, err := w.sess.Ledger(w.principal)
			if err == nil {
				err = printLedger(cmd.OutOrStdout(), entries)
			}
			return w.finish(err, "")
		},
	}
}

func newLedgerBalanceCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Print the running balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			bal, err := w.sess.CurrentBalance(w.principal)
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), w.cfg.Business.Currency+model.FormatAmount(bal))
			}
			return w.finish(err, "")
		},
	}
}

func newLedgerTopUpCommand(g *globals) *cobra.Command {
	var date, remarks string

	cmd := &cobra.Command{
		Use:   "topup <amount>",
		Short: "Credit the ledger with a budget addition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}
			on, err := parseOptionalDate("date", date)
			if err != nil {
				return err
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			if on.IsZero() {
				on = time.Now()
			}
			e, err := w.sess.TopUp(w.principal, on, amt, remarks)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Credited %s as %s, balance %s\n",
					model.FormatAmount(e.Amount), e.ID, model.FormatAmount(e.Balance))
			}
			return w.finish(err, gitops.Message("ledger", "top up %s", model.FormatAmount(amt)))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&remarks, "remarks", "", "note recorded on the entry")
	return cmd
}

func newLedgerVerifyCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute running balances and check every bill's ledger pairing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.VerifyLedger(w.principal)
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Ledger OK")
			}
			return w.finish(err, "")
		},
	}
}
