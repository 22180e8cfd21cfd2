// Package table implements the in-memory tabular dataset the file locator
// operates on: named columns, positionally ordered rows, and cells that
// distinguish "absent" from empty text. CSV load/save lives in csv.go as the
// persistence collaborator.
package table

import (
	"fmt"

	"pathbridge/internal/types"
)

// Cell is one table value. Valid false means the cell is absent, which is
// distinct from holding an empty string.
type Cell struct {
	Value string
	Valid bool
}

// String wraps a present value in a cell.
func String(v string) Cell {
	return Cell{Value: v, Valid: true}
}

// Absent is the zero cell.
var Absent = Cell{}

// Table is a mutable row/column dataset. Operations that update cells mutate
// the table in place; callers wanting isolation copy it first.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]Cell
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range t.columns {
		t.index[c] = i
	}
	return t
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// AddColumn appends a new all-absent column. Adding an existing column is a
// no-op.
func (t *Table) AddColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.index[name] = len(t.columns)
	t.columns = append(t.columns, name)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], Absent)
	}
}

// AppendRow adds a row. The cell count must match the column count.
func (t *Table) AppendRow(cells ...Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("table: row has %d cells, want %d", len(cells), len(t.columns))
	}
	t.rows = append(t.rows, append([]Cell(nil), cells...))
	return nil
}

// Cell returns the value at (row, column).
func (t *Table) Cell(row int, column string) (Cell, error) {
	col, err := t.columnIndex(column)
	if err != nil {
		return Absent, err
	}
	if row < 0 || row >= len(t.rows) {
		return Absent, fmt.Errorf("table: row %d out of range [0,%d)", row, len(t.rows))
	}
	return t.rows[row][col], nil
}

// SetCell stores a present value at (row, column).
func (t *Table) SetCell(row int, column, value string) error {
	col, err := t.columnIndex(column)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("table: row %d out of range [0,%d)", row, len(t.rows))
	}
	t.rows[row][col] = String(value)
	return nil
}

func (t *Table) columnIndex(name string) (int, error) {
	col, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("table: column %q: %w", name, types.ErrMissingColumn)
	}
	return col, nil
}
