package table

import (
	"encoding/csv"
	"fmt"
	"os"
)

// ReadCSV loads a CSV file whose first row is the header.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows tolerated, short rows read as blanks

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", path)
	}

	t := New(records[0])
	for _, rec := range records[1:] {
		row := make(Row, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(rec) {
				row[c] = rec[i]
			}
		}
		t.Append(row)
	}
	return t, nil
}

// WriteCSV saves the table with its header row.
func WriteCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range t.Rows {
		if err := w.Write(t.record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
