package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// RenderText writes a result for a terminal: notices, then summary cards,
// then every table.
func RenderText(w io.Writer, r *Result) error {
	if r.Title != "" {
		fmt.Fprintf(w, "=== %s ===\n", r.Title)
	}
	for _, n := range r.Notices {
		fmt.Fprintf(w, "[%s] %s\n", strings.ToUpper(string(n.Level)), n.Text)
	}

	if len(r.Summary) > 0 {
		fmt.Fprintln(w)
		cards := tablewriter.NewWriter(w)
		cards.SetHeader([]string{"Metric", "Value", "Detail"})
		cards.SetAutoWrapText(false)
		for _, c := range r.Summary {
			cards.Append([]string{c.Label, c.Value, c.Detail})
		}
		cards.Render()
	}

	for _, t := range r.Tables {
		fmt.Fprintf(w, "\n%s (%d of %d rows)\n", t.Title, len(t.Rows), t.TotalRows)
		if len(t.Rows) == 0 {
			continue
		}
		tw := tablewriter.NewWriter(w)
		tw.SetHeader(t.Headers())
		tw.SetAutoWrapText(false)
		tw.AppendBulk(t.Formatted())
		tw.Render()
	}
	return nil
}
