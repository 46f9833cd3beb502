// Package record turns a loaded bulk upload table into the batch the
// pipeline works on: one record per row, keyed by the primary key, carrying
// the raw free-text concatenation of the configured source columns.
//
// Extraction failures are fatal by design: a missing column or a duplicate
// primary key aborts the batch before a single model call is spent.
package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bulkclean/internal/table"
)

// Sentinel stands in for absent values, both in raw source cells and in
// synthesized fields the model reports as not present.
const Sentinel = "NA"

// Record is one extracted row. Row is an owned copy and immutable after
// extraction; Raw is the concatenated source text sent to the model.
type Record struct {
	ID  string
	Raw string
	Row table.Row
}

// Batch is the unit of one run: ordered records plus the schema context
// needed to project results back out.
type Batch struct {
	RunID         string
	PrimaryKey    string
	SourceColumns []string
	Columns       []string
	Records       []Record
}

// NonTargetColumns returns the input columns that are neither the primary
// key nor one of the source columns, in schema order.
func (b *Batch) NonTargetColumns() []string {
	skip := make(map[string]bool, len(b.SourceColumns)+1)
	for _, c := range b.SourceColumns {
		skip[c] = true
	}
	var out []string
	for _, c := range b.Columns {
		if c == b.PrimaryKey || skip[c] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Extract builds a batch from a table. Every source column cell is trimmed,
// blank cells become the NA sentinel, and cells are joined with ", " to form
// the raw case text.
func Extract(t *table.Table, primaryKey string, sourceColumns []string) (*Batch, error) {
	if primaryKey == "" {
		return nil, fmt.Errorf("primary key column is required")
	}
	if len(sourceColumns) == 0 {
		return nil, fmt.Errorf("at least one source column is required")
	}
	if !t.HasColumn(primaryKey) {
		return nil, fmt.Errorf("primary key column %q not present in input", primaryKey)
	}
	for _, c := range sourceColumns {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("source column %q not present in input", c)
		}
	}

	batch := &Batch{
		RunID:         uuid.NewString(),
		PrimaryKey:    primaryKey,
		SourceColumns: append([]string(nil), sourceColumns...),
		Columns:       append([]string(nil), t.Columns...),
		Records:       make([]Record, 0, len(t.Rows)),
	}

	seen := make(map[string]bool, len(t.Rows))
	for i, row := range t.Rows {
		id := strings.TrimSpace(row[primaryKey])
		if id == "" {
			return nil, fmt.Errorf("row %d: empty primary key", i+1)
		}
		if seen[id] {
			return nil, fmt.Errorf("row %d: duplicate primary key %q", i+1, id)
		}
		seen[id] = true

		parts := make([]string, 0, len(sourceColumns))
		for _, c := range sourceColumns {
			v := strings.TrimSpace(row[c])
			if v == "" {
				v = Sentinel
			}
			parts = append(parts, v)
		}

		owned := make(table.Row, len(row))
		for k, v := range row {
			owned[k] = v
		}

		batch.Records = append(batch.Records, Record{
			ID:  id,
			Raw: strings.TrimSpace(strings.Join(parts, ", ")),
			Row: owned,
		})
	}

	return batch, nil
}

// LabeledRaw renders the raw case text with column labels, the form the tag
// prompts expect: Column: 'value', Column: 'value', ...
func LabeledRaw(rec Record, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		v := strings.TrimSpace(rec.Row[c])
		if v == "" {
			v = Sentinel
		}
		parts = append(parts, fmt.Sprintf("%s: '%s'", c, strings.ReplaceAll(v, ",", "")))
	}
	return strings.Join(parts, ", ")
}
