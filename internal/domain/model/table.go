package model

import (
	"fmt"
	"slices"
)

// Table is an ordered, string-typed tabular dataset. Every pipeline stage that
// reads or writes a tabular file works on a Table so that columns it does not
// understand pass through unchanged.
type Table struct {
	index   map[string]int
	columns []string
	rows    [][]string
}

// NewTable builds a table from a header and rows. Each row must have exactly
// one cell per column and column names must be unique.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(columns))
		}
	}

	return &Table{
		index:   index,
		columns: slices.Clone(columns),
		rows:    rows,
	}, nil
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the cells of row i. The slice must not be modified.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of a column or a *MissingColumnError.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return -1, &MissingColumnError{Column: name}
	}
	return i, nil
}

// RequireColumns checks that every named column exists, reporting the first
// missing one in argument order.
func (t *Table) RequireColumns(names ...string) error {
	for _, name := range names {
		if _, err := t.ColumnIndex(name); err != nil {
			return err
		}
	}
	return nil
}

// WithColumn returns a new table with the column set to values. An existing
// column of that name is overwritten in place, otherwise the column is
// appended. The receiver is not modified.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.rows))
	}

	pos, exists := t.index[name]
	columns := t.columns
	if !exists {
		pos = len(t.columns)
		columns = append(slices.Clone(t.columns), name)
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out := make([]string, len(columns))
		copy(out, row)
		out[pos] = values[i]
		rows[i] = out
	}

	return NewTable(columns, rows)
}

// WithoutColumns returns a new table with the named columns removed. Names
// that are not present are ignored.
func (t *Table) WithoutColumns(names ...string) *Table {
	keep := make([]int, 0, len(t.columns))
	columns := make([]string, 0, len(t.columns))
	for i, c := range t.columns {
		if slices.Contains(names, c) {
			continue
		}
		keep = append(keep, i)
		columns = append(columns, c)
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out := make([]string, len(keep))
		for j, k := range keep {
			out[j] = row[k]
		}
		rows[i] = out
	}

	// Columns were unique in the source, so they stay unique.
	tbl, _ := NewTable(columns, rows)
	return tbl
}

// SelectRows returns a new table holding the given rows in the given order.
func (t *Table) SelectRows(indices []int) *Table {
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = slices.Clone(t.rows[idx])
	}
	tbl, _ := NewTable(t.columns, rows)
	return tbl
}

// Column returns a copy of every value in the named column.
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}
