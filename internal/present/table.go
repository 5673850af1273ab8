package present

import (
	"strings"
)

// Column is one displayed table column.
type Column struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Format Format `json:"format"`
}

// Table is a searchable tabular view. Rows are keyed by Column.Key.
type Table struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Columns      []Column         `json:"columns"`
	Rows         []map[string]any `json:"rows"`
	SearchColumn string           `json:"search_column,omitempty"`
	Search       string           `json:"search,omitempty"`
	TotalRows    int              `json:"total_rows"`
}

// NewTable creates an empty table.
func NewTable(id, title string, cols ...Column) *Table {
	return &Table{ID: id, Title: title, Columns: cols, Rows: []map[string]any{}}
}

// Append adds a row.
func (t *Table) Append(row map[string]any) {
	t.Rows = append(t.Rows, row)
	t.TotalRows = len(t.Rows)
}

// Filter keeps rows whose search column contains term, ignoring case. An
// empty term keeps everything. TotalRows still counts the unfiltered rows.
func (t *Table) Filter(term string) *Table {
	term = strings.TrimSpace(term)
	t.Search = term
	if term == "" || t.SearchColumn == "" {
		return t
	}
	needle := strings.ToLower(term)
	kept := make([]map[string]any, 0, len(t.Rows))
	for _, r := range t.Rows {
		s, _ := r[t.SearchColumn].(string)
		if strings.Contains(strings.ToLower(s), needle) {
			kept = append(kept, r)
		}
	}
	t.Rows = kept
	return t
}

// Formatted renders every row as display strings in column order.
func (t *Table) Formatted() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		line := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			line[i] = Cell(r[c.Key], c.Format)
		}
		out = append(out, line)
	}
	return out
}

// Headers returns the column titles.
func (t *Table) Headers() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Title
	}
	return h
}
