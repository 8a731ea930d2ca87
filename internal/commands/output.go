package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/finad-dev/finad/internal/expense"
	"github.com/finad-dev/finad/internal/model"
)

const dateFormat = "2006-01-02"

// printTable writes tab-aligned columns.
func printTable(out io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func printBills(out io.Writer, bills []model.Expense) error {
	if len(bills) == 0 {
		_, err := fmt.Fprintln(out, "No bills.")
		return err
	}
	rows := make([][]string, len(bills))
	for i, e := range bills {
		rows[i] = []string{
			e.ID,
			e.Date.Format(dateFormat),
			e.Department,
			e.Description,
			model.FormatAmount(e.Amount),
			string(e.Status),
			e.Uploader,
		}
	}
	return printTable(out, []string{"ID", "DATE", "DEPARTMENT", "DESCRIPTION", "AMOUNT", "STATUS", "UPLOADER"}, rows)
}

func printBill(out io.Writer, e model.Expense) {
	fmt.Fprintf(out, "%s  %s  %s\n", e.ID, e.Date.Format(dateFormat), e.Department)
	fmt.Fprintf(out, "  %s\n", e.Description)
	fmt.Fprintf(out, "  %s  %s  uploaded by %s  ledger %s\n", model.FormatAmount(e.Amount), e.Status, e.Uploader, e.LedgerEntryID)
	if e.Invoice != "" {
		fmt.Fprintf(out, "  invoice %s\n", e.Invoice)
	}
}

func printLedger(out io.Writer, entries []model.LedgerEntry) error {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		note := e.Remarks
		switch {
		case e.IsReversal():
			note = strings.TrimSpace(note + " (reverses " + e.ReversalOf + ")")
		case e.IsReversed():
			note = strings.TrimSpace(note + " (reversed by " + e.ReversedBy + ")")
		}
		rows[i] = []string{
			e.ID,
			e.Date.Format(dateFormat),
			e.Department,
			string(e.Type),
			model.FormatAmount(e.Amount),
			model.FormatAmount(e.Balance),
			note,
		}
	}
	return printTable(out, []string{"ENTRY", "DATE", "DEPARTMENT", "TYPE", "AMOUNT", "BALANCE", "REMARKS"}, rows)
}

// filterFlags are the bill selection flags shared by list and report.
type filterFlags struct {
	department string
	status     string
	search     string
	from       string
	to         string
}

func (f filterFlags) filter() (expense.Filter, error) {
	out := expense.Filter{
		Department: f.department,
		Search:     f.search,
	}
	if f.status != "" {
		s, err := parseStatus(f.status)
		if err != nil {
			return expense.Filter{}, err
		}
		out.Status = s
	}
	var err error
	if out.From, err = parseOptionalDate("from", f.from); err != nil {
		return expense.Filter{}, err
	}
	if out.To, err = parseOptionalDate("to", f.to); err != nil {
		return expense.Filter{}, err
	}
	return out, nil
}

func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, model.ValidationError{Field: field, Reason: "must be a date in YYYY-MM-DD form"}
	}
	return t, nil
}

func parseStatus(s string) (model.BillStatus, error) {
	for _, st := range model.Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", model.ValidationError{Field: "status", Reason: "must be one of Paid, Pending, Rejected"}
}
