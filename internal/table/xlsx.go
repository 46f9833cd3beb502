package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Class is a cell highlight classification. The colors follow the review
// convention: red for errors, yellow for warnings, green for repaired
// values; clean cells are left unstyled.
type Class int

const (
	ClassNone Class = iota
	ClassRepaired
	ClassWarning
	ClassError
)

var classFills = map[Class]string{
	ClassRepaired: "C6EFCE", // green
	ClassWarning:  "FFEB9C", // yellow
	ClassError:    "FFC7CE", // red
}

type cellKey struct {
	row    int
	column string
}

// Highlights records the highlight class per (row, column). Informational
// only; output correctness never depends on it.
type Highlights struct {
	cells map[cellKey]Class
}

// NewHighlights creates an empty highlight map.
func NewHighlights() *Highlights {
	return &Highlights{cells: make(map[cellKey]Class)}
}

// Set classifies one cell. ClassNone removes any prior classification.
func (h *Highlights) Set(row int, column string, c Class) {
	if c == ClassNone {
		delete(h.cells, cellKey{row, column})
		return
	}
	h.cells[cellKey{row, column}] = c
}

// Get returns the classification for a cell.
func (h *Highlights) Get(row int, column string) Class {
	if h == nil {
		return ClassNone
	}
	return h.cells[cellKey{row, column}]
}

// ReadXLSX loads the first sheet of an Excel workbook, first row as header.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read %s: missing header row", path)
	}

	t := New(rows[0])
	for _, rec := range rows[1:] {
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

// WriteXLSX saves the table to a single-sheet workbook, applying severity
// highlight fills when provided.
func WriteXLSX(path string, t *Table, hl *Highlights) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	styles := make(map[Class]int, len(classFills))
	for class, color := range classFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}},
		})
		if err != nil {
			return fmt.Errorf("create style: %w", err)
		}
		styles[class] = id
	}

	for i := range t.Rows {
		cells := t.record(i)
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			values[j] = v
		}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if err := f.SetSheetRow(sheet, anchor, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}

		for j, col := range t.Columns {
			class := hl.Get(i, col)
			if class == ClassNone {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", i, j, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, styles[class]); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
