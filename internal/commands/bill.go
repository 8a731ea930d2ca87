package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/finad-dev/finad/internal/access"
	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/gitops"
	"github.com/finad-dev/finad/internal/importer"
	"github.com/finad-dev/finad/internal/model"
)

func newBillCommand(g *globals) *cobra.Command {
	billCmd := &cobra.Command{
		Use:   "bill",
		Short: "Record and manage bills",
	}
	billCmd.AddCommand(
		newBillAddCommand(g),
		newBillListCommand(g),
		newBillShowCommand(g),
		newBillUpdateCommand(g),
		newBillRemoveCommand(g),
		newBillImportCommand(g),
	)
	return billCmd
}

func newBillAddCommand(g *globals) *cobra.Command {
	var in expense.BillInput
	var amount, status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a bill and debit the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}

			if in.Amount, err = model.ParseAmount(amount); err != nil {
				return w.finish(w.sess.RejectInput(w.principal, access.OpAdd, "bill.add", in.Description, err), "")
			}
			if status != "" {
				if in.Status, err = parseStatus(status); err != nil {
					return w.finish(w.sess.RejectInput(w.principal, access.OpAdd, "bill.add", in.Description, err), "")
				}
			}
			if in.Date == "" {
				in.Date = time.Now().Format(dateFormat)
			}

			e, err := w.sess.AddBill(cmd.Context(), w.principal, in)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s %s, ledger %s)\n",
					e.ID, e.Department, model.FormatAmount(e.Amount), e.LedgerEntryID)
			}
			return w.finish(err, gitops.Message("bill", "add %s %s %s", e.ID, e.Department, model.FormatAmount(e.Amount)))
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Date, "date", "", "bill date YYYY-MM-DD (default today)")
	f.StringVar(&in.Department, "department", "", "department label, e.g. \"Technical Bills\" (required)")
	f.StringVar(&in.Description, "description", "", "what the bill is for (required)")
	f.StringVar(&amount, "amount", "", "amount, up to 2 decimal places (required)")
	f.StringVar(&status, "status", "", "Paid, Pending or Rejected (default Paid)")
	f.StringVar(&in.Invoice, "invoice", "", "attached invoice file name")
	f.StringVar(&in.Uploader, "uploader", "", "uploader name (default the acting user)")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newBillListCommand(g *globals) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bills, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.filter()
			if err != nil {
				return err
			}
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			bills, err := w.sess.ListBills(w.principal, f)
			if err == nil {
				err = printBills(cmd.OutOrStdout(), bills)
			}
			return w.finish(err, "")
		},
	}
	addFilterFlags(cmd, &ff)
	return cmd
}

func addFilterFlags(cmd *cobra.Command, ff *filterFlags) {
	f := cmd.Flags()
	f.StringVar(&ff.department, "department", "", "only this department")
	f.StringVar(&ff.status, "status", "", "only this status")
	f.StringVar(&ff.search, "search", "", "case-insensitive match on id or description")
	f.StringVar(&ff.from, "from", "", "earliest bill date YYYY-MM-DD")
	f.StringVar(&ff.to, "to", "", "latest bill date YYYY-MM-DD")
}

func newBillShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			e, err := w.sess.GetBill(w.principal, args[0])
			if err == nil {
				printBill(cmd.OutOrStdout(), e)
			}
			return w.finish(err, "")
		},
	}
}

func newBillUpdateCommand(g *globals) *cobra.Command {
	var date, department, description, amount, status, invoice string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a bill; amount, date or department changes re-post its ledger debit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			reject := func(err error) error {
				return w.finish(w.sess.RejectInput(w.principal, access.OpEditExpense, "bill.update", args[0], err), "")
			}

			var p expense.BillPatch
			flags := cmd.Flags()
			if flags.Changed("date") {
				p.Date = &date
			}
			if flags.Changed("department") {
				p.Department = &department
			}
			if flags.Changed("description") {
				p.Description = &description
			}
			if flags.Changed("invoice") {
				p.Invoice = &invoice
			}
			if flags.Changed("amount") {
				amt, err := model.ParseAmount(amount)
				if err != nil {
					return reject(err)
				}
				p.Amount = &amt
			}
			if flags.Changed("status") {
				st, err := parseStatus(status)
				if err != nil {
					return reject(err)
				}
				p.Status = &st
			}

			e, err := w.sess.UpdateBill(w.principal, args[0], p)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (ledger %s)\n", e.ID, e.LedgerEntryID)
			}
			return w.finish(err, gitops.Message("bill", "update %s", args[0]))
		},
	}

	f := cmd.Flags()
	f.StringVar(&date, "date", "", "new bill date YYYY-MM-DD")
	f.StringVar(&department, "department", "", "new department label")
	f.StringVar(&description, "description", "", "new description")
	f.StringVar(&amount, "amount", "", "new amount")
	f.StringVar(&status, "status", "", "new status")
	f.StringVar(&invoice, "invoice", "", "new invoice file name")
	return cmd
}

func newBillRemoveCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a bill and reverse its ledger debit",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}
			err = w.sess.RemoveBill(w.principal, args[0])
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			}
			return w.finish(err, gitops.Message("bill", "remove %s", args[0]))
		},
	}
}

func newBillImportCommand(g *globals) *cobra.Command {
	var format, department string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import bills from CSV files (default: every CSV in import/)",
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := importer.DefaultRegistry().Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (have %v)", format, importer.DefaultRegistry().Formats())
			}

			w, err := openWorkspace(cmd, g)
			if err != nil {
				return err
			}

			files := args
			scanned := len(args) == 0
			if scanned {
				found, err := importer.Scan(w.root)
				if err != nil {
					return w.finish(err, "")
				}
				for _, f := range found {
					files = append(files, f.Path)
				}
			}
			if len(files) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No CSV files in %s\n", importer.Dir(w.root))
				return w.finish(nil, "")
			}

			out := cmd.OutOrStdout()
			var added int
			var done []string
			for _, path := range files {
				n, err := importFile(cmd, w, parser, path, department)
				added += n
				if err != nil {
					return w.finish(fmt.Errorf("%s: %w (nothing was imported)", filepath.Base(path), err), "")
				}
				fmt.Fprintf(out, "Imported %d bills from %s\n", n, filepath.Base(path))
				done = append(done, filepath.Base(path))
			}
			if scanned {
				for _, name := range done {
					if err := importer.MarkProcessed(w.root, name); err != nil {
						return w.finish(err, "")
					}
				}
			}
			return w.finish(nil, gitops.Message("bill", "import %d bills", added))
		},
	}

	cmd.Flags().StringVar(&format, "format", "finad", "file layout: finad or department")
	cmd.Flags().StringVar(&department, "department", "", "department for layouts without a department column")
	return cmd
}

// importFile adds every bill in path and returns how many were added. The
// caller saves nothing when it fails.
func importFile(cmd *cobra.Command, w *workspace, parser importer.Parser, path, department string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	bills, err := parser.Parse(f, department)
	if err != nil {
		return 0, err
	}
	for i, in := range bills {
		if _, err := w.sess.AddBill(cmd.Context(), w.principal, in); err != nil {
			return i, fmt.Errorf("bill %d: %w", i+1, err)
		}
	}
	return len(bills), nil
}
