package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"pathbridge/internal/types"
)

// LoadCSV reads a table from a headered CSV file. Empty fields load as
// absent cells.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("table: %s: %w", path, types.ErrNotFound)
		}
		return nil, fmt.Errorf("table: opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("table: reading %s: %v: %w", path, err, types.ErrParse)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("table: %s has no header row: %w", path, types.ErrParse)
	}

	t := New(records[0]...)
	for _, record := range records[1:] {
		cells := make([]Cell, len(record))
		for i, field := range record {
			if field != "" {
				cells[i] = String(field)
			}
		}
		if err := t.AppendRow(cells...); err != nil {
			return nil, fmt.Errorf("table: %s: %w", path, err)
		}
	}
	return t, nil
}

// SaveCSV writes the table as headered CSV. Absent cells write as empty
// fields.
func (t *Table) SaveCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("table: creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.columns); err != nil {
		return fmt.Errorf("table: writing %s: %w", path, err)
	}
	record := make([]string, len(t.columns))
	for _, row := range t.rows {
		for i, cell := range row {
			if cell.Valid {
				record[i] = cell.Value
			} else {
				record[i] = ""
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("table: writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("table: flushing %s: %w", path, err)
	}
	return nil
}
