package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/export"
	"github.com/finad-dev/finad/internal/report"
)

const summaryKind = "summary"

func newReportCommand(g *globals) *cobra.Command {
	var ff filterFlags
	var format, out, month string

	kinds := []string{summaryKind}
	for _, k := range report.Kinds {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:       "report <" + strings.Join(kinds, "|") + ">",
		Short:     "Export a report as CSV, PDF or XLSX",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			filter, err := ff.filter()
			if err != nil {
				return err
			}
			on := time.Now()
			if month != "" {
				if on, err = time.Parse("2006-01", month); err != nil {
					return fmt.Errorf("--month must look like 2026-01")
				}
			}

			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			if err := w.sess.AuthorizeReport(w.principal, kind); err != nil {
				return w.finish(err, "")
			}
			t, err := buildReport(w, kind, filter, on)
			if err != nil {
				return w.finish(err, "")
			}

			dest := out
			if dest == "" && f != export.CSV {
				dest = filepath.Join(w.root, "exports", kind+"."+string(f))
			}
			err = writeReport(cmd.OutOrStdout(), dest, f, t, export.Options{
				Business:       w.cfg.Business.Name,
				CurrencySymbol: w.cfg.Business.Currency,
			})
			if err == nil && dest != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", dest)
			}
			return w.finish(err, "")
		},
	}

	addFilterFlags(cmd, &ff)
	cmd.Flags().StringVar(&format, "format", "csv", "csv, pdf or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout for csv, exports/<report>.<format> otherwise)")
	cmd.Flags().StringVar(&month, "month", "", "month for the monthly report, YYYY-MM (default this month)")
	return cmd
}

// buildReport assembles the table for kind. Bill-based reports honour the
// filter flags.
func buildReport(w *workspace, kind string, filter expense.Filter, month time.Time) (export.Table, error) {
	p := w.principal
	switch report.Kind(kind) {
	case report.Expenses, report.Monthly, report.Departments:
		bills, err := w.sess.ListBills(p, filter)
		if err != nil {
			return export.Table{}, err
		}
		switch report.Kind(kind) {
		case report.Expenses:
			return report.ExpenseTable("Expense Report", bills), nil
		case report.Monthly:
			return report.MonthlyTable(month, bills), nil
		}
		agg, err := w.sess.Aggregates(p)
		if err != nil {
			return export.Table{}, err
		}
		return report.DepartmentTable(agg.Departments, bills), nil
	case report.Variance:
		agg, err := w.sess.Aggregates(p)
		if err != nil {
			return export.Table{}, err
		}
		return report.VarianceTable(agg.Departments), nil
	case report.Ledger:
		entries, err := w.sess.Ledger(p)
		if err != nil {
			return export.Table{}, err
		}
		return report.LedgerTable(entries), nil
	default:
		agg, err := w.sess.Aggregates(p)
		if err != nil {
			return export.Table{}, err
		}
		return report.SummaryTable(agg.Overview, agg.Balance, w.cfg.Business.Currency), nil
	}
}

func writeReport(stdout io.Writer, dest string, f export.Format, t export.Table, opts export.Options) error {
	if dest == "" {
		return export.Write(stdout, f, t, opts)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := export.Write(file, f, t, opts); err != nil {
		file.Close()
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return file.Close()
}
