// Package table is the tabular-file collaborator: it loads and saves bulk
// upload files as ordered column schemas with rows addressed by column name.
// CSV is handled with the standard library; Excel files go through excelize,
// including the severity cell highlighting used for human review.
package table

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Row holds one record's cells keyed by column name.
type Row map[string]string

// Table is an ordered set of named columns plus rows. Column order is
// preserved from the source file and drives output order.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether the schema contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Cells for unknown columns are ignored at write time.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Cell returns the value at (row, column), blank when absent.
func (t *Table) Cell(row int, column string) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][column]
}

// record materializes one row in column order.
func (t *Table) record(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = t.Rows[i][c]
	}
	return out
}

// Read loads a table, dispatching on the file extension: .xlsx via excelize,
// everything else as CSV.
func Read(path string) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}
	return ReadCSV(path)
}

// Write saves a table, dispatching on extension the same way Read does.
// Highlights apply only to Excel output; CSV silently drops them.
func Write(path string, t *Table, hl *Highlights) error {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return WriteXLSX(path, t, hl)
	}
	return WriteCSV(path, t)
}

// OutputPath derives the companion output filename for an input file, e.g.
// contacts.csv -> contacts_PRIMARY_CONTACTS.xlsx.
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return fmt.Sprintf("%s%s.xlsx", base, suffix)
}
