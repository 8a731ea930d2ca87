package commands

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/model"
	"github.com/finad-dev/finad/internal/report"
)

func newBudgetCommand(g *globals) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Show and allocate budgets",
	}
	budgetCmd.AddCommand(
		newBudgetShowCommand(g),
		newBudgetTotalCommand(g),
		newBudgetSetCommand(g),
		newBudgetListCommand(g),
	)
	return budgetCmd
}

func newBudgetShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the budget overview and per-department utilization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			agg, err := w.sess.Aggregates(w.principal)
			if err != nil {
				return w.finish(err, "")
			}

			out := cmd.OutOrStdout()
			for _, l := range report.SummaryLines(agg.Overview, agg.Balance, w.cfg.Business.Currency) {
				fmt.Fprintf(out, "%-16s %s\n", l[0]+":", l[1])
			}
			if agg.OverAllocated {
				fmt.Fprintf(out, "%-16s department budgets total %s, more than the total budget\n",
					"Over-allocated:", model.FormatAmount(agg.AllocatedTotal))
			}
			fmt.Fprintln(out)

			rows := make([][]string, len(agg.Departments))
			for i, u := range agg.Departments {
				flag := ""
				if u.OverBudget {
					flag = "OVER"
				}
				rows[i] = []string{u.Department, model.FormatAmount(u.Budget), model.FormatAmount(u.Spent),
					model.FormatAmount(u.Remaining), u.Percent(), flag}
			}
			return w.finish(printTable(out, []string{"DEPARTMENT", "BUDGET", "SPENT", "REMAINING", "USED", ""}, rows), "")
		},
	}
}

func newBudgetTotalCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "total <amount>",
		Short: "Set the total budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := model.ParseAmount(args[0])
			if err != nil {
				return err
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.SetTotalBudget(cmd.Context(), w.principal, amt)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Total budget is now %s\n", model.FormatAmount(amt))
			}
			return w.finish(err, gitops.Message("budget", "total %s", model.FormatAmount(amt)))
		},
	}
}

func newBudgetSetCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "set <department> <amount>",
		Short: "Set a department's allocation (zero allowed)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amt, err := parseAllocation(args[1])
			if err != nil {
				return err
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.SetDepartmentBudget(cmd.Context(), w.principal, args[0], amt)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s budget is now %s\n", args[0], model.FormatAmount(amt))
			}
			return w.finish(err, gitops.Message("budget", "%s %s", args[0], model.FormatAmount(amt)))
		},
	}
}

func newBudgetListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the total budget and every allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			total, budgets, err := w.sess.Budgets(w.principal)
			if err != nil {
				return w.finish(err, "")
			}
			labels := make([]string, 0, len(budgets))
			for l := range budgets {
				labels = append(labels, l)
			}
			sort.Strings(labels)
			rows := [][]string{{"(total)", model.FormatAmount(total)}}
			for _, l := range labels {
				rows = append(rows, []string{l, model.FormatAmount(budgets[l])})
			}
			return w.finish(printTable(cmd.OutOrStdout(), []string{"DEPARTMENT", "BUDGET"}, rows), "")
		},
	}
}

func parseAllocation(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", model.ErrInvalidAmount, s)
	}
	if err := model.ValidateAllocation(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
