package snapdiff

import (
	"fmt"
	"slices"
)

// Table is an in-memory dataset: named, ordered columns and positional rows.
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...string) (*Table, error) {
	t := &Table{
		name:    name,
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, exists := t.index[c]; exists {
			return nil, fmt.Errorf("table %q: duplicate column %q", name, c)
		}
		t.index[c] = i
	}
	return t, nil
}

// Append adds a row. It must have exactly one value per column.
func (t *Table) Append(values ...Value) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("table %q: row %d has %d values, want %d", t.name, len(t.rows)+1, len(values), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

// Name returns the table name, usually where it was loaded from.
func (t *Table) Name() string { return t.name }

// Columns returns a copy of the column names, in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// HasColumn reports whether the table has a column named col.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Cell returns the value of column col in row i. Unknown columns read as missing.
func (t *Table) Cell(i int, col string) Value {
	j, ok := t.index[col]
	if !ok {
		return Missing()
	}
	return t.rows[i][j]
}

// Column returns all the values of a column.
func (t *Table) Column(col string) ([]Value, bool) {
	j, ok := t.index[col]
	if !ok {
		return nil, false
	}
	values := make([]Value, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[j]
	}
	return values, true
}

