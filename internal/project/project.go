// Package project builds the reviewer-facing output tables from synthesized
// results: merged field columns for contacts and tags, expanded per-entry
// rows for hours. Every input record appears in the output exactly once for
// merges and at least once for expansions; a field at Error severity falls
// back to the original raw text rather than shipping a bad value.
package project

import (
	"strings"

	"bulkclean/internal/hoursfmt"
	"bulkclean/internal/record"
	"bulkclean/internal/severity"
	"bulkclean/internal/synth"
	"bulkclean/internal/table"
	"bulkclean/internal/validate"
)

// Output columns appended to every projection.
const (
	RawColumn   = "Original Text"
	AuditColumn = "Validation Notes"
)

// Output filename suffixes.
const (
	ContactsSuffix = "_PRIMARY_CONTACTS"
	HoursSuffix    = "_CLEANED_HOURS"
	TagsSuffix     = "_LOCATION_TAGS"
)

// classFor maps a severity level to its review highlight.
func classFor(l severity.Level) table.Class {
	switch l {
	case severity.Repaired:
		return table.ClassRepaired
	case severity.Warning:
		return table.ClassWarning
	case severity.Error:
		return table.ClassError
	}
	return table.ClassNone
}

// auditText renders a record's trail as the audit cell.
func auditText(rec *severity.Record) string {
	msgs := rec.Trail()
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, "; ")
}

// Contacts merges synthesized contact fields into the batch rows, one output
// row per record.
func Contacts(batch *record.Batch, results []synth.Result) (*table.Table, *table.Highlights) {
	return merge(batch, results, []string{
		validate.FieldNumber, validate.FieldEmail,
		validate.FieldName, validate.FieldExtension,
	})
}

// Tags merges synthesized tag fields the same way contacts are merged.
func Tags(batch *record.Batch, results []synth.Result, fields []string) (*table.Table, *table.Highlights) {
	return merge(batch, results, fields)
}

// merge produces one row per record: primary key, untouched non-target
// columns, the synthesized fields, the raw text, and the audit trail. A
// field at Error reverts to the raw text; its synthesized value survives
// only in the audit trail's explanation.
func merge(batch *record.Batch, results []synth.Result, fields []string) (*table.Table, *table.Highlights) {
	carried := batch.NonTargetColumns()

	columns := make([]string, 0, len(carried)+len(fields)+3)
	columns = append(columns, batch.PrimaryKey)
	columns = append(columns, carried...)
	columns = append(columns, fields...)
	columns = append(columns, RawColumn, AuditColumn)

	out := table.New(columns)
	hl := table.NewHighlights()

	for i, res := range results {
		rec := batch.Records[i]
		row := make(table.Row, len(columns))
		row[batch.PrimaryKey] = rec.ID
		for _, c := range carried {
			row[c] = rec.Row[c]
		}

		for _, f := range fields {
			level := res.State.Level(f)
			value := res.Fields.Get(f)
			if severity.Decide(level) == severity.Reject {
				value = res.Raw
			}
			row[f] = value
			hl.Set(i, f, classFor(level))
		}

		row[RawColumn] = res.Raw
		row[AuditColumn] = auditText(res.State)
		out.Append(row)
	}
	return out, hl
}

// hoursColumns is the declared target schema for one expanded hours entry,
// position for position with the mini-format.
func hoursColumns(ver hoursfmt.Version) []string {
	cols := []string{
		"Day of Week", "Open Time", "Close Time",
		"Reserved 1", "Reserved 2", "Reserved 3", "Reserved 4", "Reserved 5",
		"Week of Month", "Day of Month", "Frequency",
		"Reserved 6", "Reserved 7",
	}
	if ver == hoursfmt.V2 {
		cols = append(cols, "Reserved 8")
	}
	return cols
}

// Hours expands each record's synthesized hours into one output row per
// entry. A rejected record contributes exactly one row with its raw text in
// the first entry column, so no primary key ever disappears from the output.
func Hours(batch *record.Batch, results []synth.Result, ver hoursfmt.Version) (*table.Table, *table.Highlights) {
	carried := batch.NonTargetColumns()
	entryCols := hoursColumns(ver)

	columns := make([]string, 0, len(carried)+len(entryCols)+2)
	columns = append(columns, batch.PrimaryKey)
	columns = append(columns, carried...)
	columns = append(columns, entryCols...)
	columns = append(columns, AuditColumn)

	out := table.New(columns)
	hl := table.NewHighlights()

	for i, res := range results {
		rec := batch.Records[i]
		level := res.State.Level(validate.FieldHours)
		audit := auditText(res.State)

		base := make(table.Row, len(columns))
		base[batch.PrimaryKey] = rec.ID
		for _, c := range carried {
			base[c] = rec.Row[c]
		}
		base[AuditColumn] = audit

		if severity.Decide(level) == severity.Reject {
			row := cloneRow(base)
			row[entryCols[0]] = res.Raw
			out.Append(row)
			hl.Set(len(out.Rows)-1, entryCols[0], table.ClassError)
			hl.Set(len(out.Rows)-1, AuditColumn, table.ClassError)
			continue
		}

		prefix := make([]string, 0, 1+len(carried))
		prefix = append(prefix, rec.ID)
		for _, c := range carried {
			prefix = append(prefix, rec.Row[c])
		}
		entries := hoursfmt.Decode(ver, res.Fields.Get(validate.FieldHours))
		for _, cells := range hoursfmt.ExpandRows(prefix, entries) {
			row := cloneRow(base)
			for j, c := range entryCols {
				row[c] = cells[1+len(carried)+j]
			}
			out.Append(row)
			hl.Set(len(out.Rows)-1, AuditColumn, classFor(level))
		}
	}
	return out, hl
}

func cloneRow(r table.Row) table.Row {
	out := make(table.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
