package warehouse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// Table is a tabular query result. Column names are lower-cased; values are
// whatever the driver decoded, with nil for SQL NULL.
type Table struct {
	Columns []string
	Rows    [][]any

	index map[string]int
}

// NewTable builds a Table from column names and row values.
func NewTable(columns []string, rows [][]any) *Table {
	t := &Table{Columns: make([]string, len(columns)), Rows: rows}
	t.index = make(map[string]int, len(columns))
	for i, c := range columns {
		name := strings.ToLower(c)
		t.Columns[i] = name
		t.index[name] = i
	}
	return t
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	return NewTable(nil, nil)
}

// Len returns the number of rows. A nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool { return t.Len() == 0 }

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[strings.ToLower(col)]
	return ok
}

// Value returns the raw value at row i, column col, or nil when the column
// is absent.
func (t *Table) Value(i int, col string) any {
	j, ok := t.index[strings.ToLower(col)]
	if !ok || i < 0 || i >= len(t.Rows) || j >= len(t.Rows[i]) {
		return nil
	}
	return t.Rows[i][j]
}

// String renders the value as text; NULL becomes "".
func (t *Table) String(i int, col string) string {
	switch v := t.Value(i, col).(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case pgtype.Text:
		return v.String
	default:
		return fmt.Sprint(v)
	}
}

// Float converts a numeric value. NULL, NaN, infinities and unparsable
// values are undefined.
func (t *Table) Float(i int, col string) pgtype.Float8 {
	var f float64
	switch v := t.Value(i, col).(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case int:
		f = float64(v)
	case pgtype.Float8:
		if !v.Valid {
			return pgtype.Float8{}
		}
		f = v.Float64
	case pgtype.Numeric:
		fv, err := v.Float64Value()
		if err != nil || !fv.Valid {
			return pgtype.Float8{}
		}
		f = fv.Float64
	case string:
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return pgtype.Float8{}
		}
		f = p
	default:
		return pgtype.Float8{}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: f, Valid: true}
}

// Int converts an integral value; anything else yields 0.
func (t *Table) Int(i int, col string) int64 {
	switch v := t.Value(i, col).(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case pgtype.Numeric:
		iv, err := v.Int64Value()
		if err != nil || !iv.Valid {
			return 0
		}
		return iv.Int64
	default:
		return 0
	}
}

// Strings collects one column as text.
func (t *Table) Strings(col string) []string {
	out := make([]string, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, t.String(i, col))
	}
	return out
}
