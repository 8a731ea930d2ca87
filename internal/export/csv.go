package export

import (
	"bufio"
	"io"
	"strings"
)

// WriteCSV writes a header of column labels and one row per table row with
// every field double-quoted. Lines end in "\n" with no trailing newline. An
// empty table writes nothing.
func WriteCSV(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	bw := bufio.NewWriter(w)

	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	bw.WriteString(strings.Join(labels, ","))

	for _, r := range t.Rows {
		bw.WriteByte('\n')
		for i := range t.Columns {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteByte('"')
			bw.WriteString(strings.ReplaceAll(r.cell(i), `"`, `""`))
			bw.WriteByte('"')
		}
	}
	return bw.Flush()
}
