// Package cat provides the immutable table value returned by the cat endpoints
// and the renderers that turn it into text, JSON or YAML.
package cat

import (
	"fmt"
	"strings"
)

// Column describes one table column
type Column struct {
	Name    string
	Aliases []string
	Desc    string
}

// matches reports whether name is the column name or one of its aliases
func (c Column) matches(name string) bool {
	if c.Name == name {
		return true
	}
	for _, a := range c.Aliases {
		if a == name {
			return true
		}
	}
	return false
}

// Table is a header plus rows whose cells line up with the header positionally.
// A Table is never mutated; WithRow and Select return new values.
type Table struct {
	columns []Column
	rows    [][]any
}

// NewTable creates a table with the given header and no rows
func NewTable(columns ...Column) (Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return Table{}, fmt.Errorf("column name is required")
		}
		if _, ok := seen[c.Name]; ok {
			return Table{}, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = struct{}{}
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)
	return Table{columns: cols}, nil
}

// WithRow returns a copy of the table with one more row appended
func (t Table) WithRow(cells ...any) (Table, error) {
	if len(cells) != len(t.columns) {
		return Table{}, fmt.Errorf("row has %d cells, header has %d columns", len(cells), len(t.columns))
	}

	row := make([]any, len(cells))
	copy(row, cells)

	rows := make([][]any, len(t.rows), len(t.rows)+1)
	copy(rows, t.rows)
	rows = append(rows, row)

	return Table{columns: t.columns, rows: rows}, nil
}

// Columns returns the header
func (t Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Rows returns the data rows
func (t Table) Rows() [][]any {
	rows := make([][]any, len(t.rows))
	for i, r := range t.rows {
		rows[i] = append([]any(nil), r...)
	}
	return rows
}

// Names returns the column names in header order
func (t Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Select returns a table restricted to the named columns, in the requested order.
// Names may be aliases; unknown names are skipped. An empty selection keeps every column.
func (t Table) Select(names []string) Table {
	if len(names) == 0 {
		return t
	}

	var idx []int
	for _, n := range names {
		n = strings.TrimSpace(n)
		for i, c := range t.columns {
			if c.matches(n) {
				idx = append(idx, i)
				break
			}
		}
	}

	cols := make([]Column, len(idx))
	for j, i := range idx {
		cols[j] = t.columns[i]
	}
	rows := make([][]any, len(t.rows))
	for r, row := range t.rows {
		cells := make([]any, len(idx))
		for j, i := range idx {
			cells[j] = row[i]
		}
		rows[r] = cells
	}

	return Table{columns: cols, rows: rows}
}
