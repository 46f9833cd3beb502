package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkclean/internal/hoursfmt"
	"bulkclean/internal/record"
	"bulkclean/internal/severity"
	"bulkclean/internal/synth"
	"bulkclean/internal/table"
	"bulkclean/internal/validate"
)

func contactBatch(t *testing.T, rows ...table.Row) *record.Batch {
	t.Helper()
	tbl := table.New([]string{"ID", "Region", "Contact Info"})
	for _, r := range rows {
		tbl.Append(r)
	}
	batch, err := record.Extract(tbl, "ID", []string{"Contact Info"})
	require.NoError(t, err)
	return batch
}

func contactResult(id, raw string, fields validate.Fields) synth.Result {
	return synth.Result{
		ID:     id,
		Raw:    raw,
		Fields: fields,
		State: severity.NewRecord(validate.FieldNumber, validate.FieldEmail,
			validate.FieldName, validate.FieldExtension),
	}
}

func TestContactsMergesAcceptedFields(t *testing.T) {
	batch := contactBatch(t, table.Row{
		"ID": "P-1", "Region": "North", "Contact Info": "John Cena, 603-654-4524",
	})
	res := contactResult("P-1", batch.Records[0].Raw, validate.Fields{
		validate.FieldNumber:    "603-654-4524",
		validate.FieldEmail:     "NA",
		validate.FieldName:      "John Cena",
		validate.FieldExtension: "NA",
	})

	out, hl := Contacts(batch, []synth.Result{res})

	assert.Equal(t, []string{
		"ID", "Region",
		validate.FieldNumber, validate.FieldEmail, validate.FieldName, validate.FieldExtension,
		RawColumn, AuditColumn,
	}, out.Columns)
	require.Len(t, out.Rows, 1)

	row := out.Rows[0]
	assert.Equal(t, "P-1", row["ID"])
	assert.Equal(t, "North", row["Region"], "non-target columns carried unchanged")
	assert.Equal(t, "603-654-4524", row[validate.FieldNumber])
	assert.Equal(t, "John Cena, 603-654-4524", row[RawColumn])
	assert.Empty(t, row[AuditColumn])
	assert.Equal(t, table.ClassNone, hl.Get(0, validate.FieldNumber))
}

func TestContactsRejectedFieldRevertsToRaw(t *testing.T) {
	batch := contactBatch(t, table.Row{"ID": "P-1", "Contact Info": "scrambled text"})
	res := contactResult("P-1", "scrambled text", validate.Fields{
		validate.FieldNumber:    "999-999-9999",
		validate.FieldEmail:     "NA",
		validate.FieldName:      "NA",
		validate.FieldExtension: "NA",
	})
	res.State.Escalate(validate.FieldNumber, severity.Error,
		"Number not found within original contact information.")

	out, hl := Contacts(batch, []synth.Result{res})

	row := out.Rows[0]
	assert.Equal(t, "scrambled text", row[validate.FieldNumber],
		"rejected field falls back to the original text")
	assert.Equal(t, table.ClassError, hl.Get(0, validate.FieldNumber))
	assert.Contains(t, row[AuditColumn], "ERROR: Number not found")
}

func TestContactsHighlightsWarningAndRepaired(t *testing.T) {
	batch := contactBatch(t, table.Row{"ID": "P-1", "Contact Info": "603-654-4524 5315"})
	res := contactResult("P-1", "603-654-4524 5315", validate.Fields{
		validate.FieldNumber:    "603-654-4524",
		validate.FieldEmail:     "NA",
		validate.FieldName:      "NA",
		validate.FieldExtension: "5315",
	})
	res.State.Escalate(validate.FieldExtension, severity.Warning,
		"Extension Keyword not found within original contact information.")
	res.State.MarkRepaired(validate.FieldName)

	out, hl := Contacts(batch, []synth.Result{res})

	assert.Equal(t, "5315", out.Rows[0][validate.FieldExtension], "warnings keep the value")
	assert.Equal(t, table.ClassWarning, hl.Get(0, validate.FieldExtension))
	assert.Equal(t, table.ClassRepaired, hl.Get(0, validate.FieldName))
}

func hoursBatch(t *testing.T, rows ...table.Row) *record.Batch {
	t.Helper()
	tbl := table.New([]string{"Program External ID", "Program Name", "Hours Note"})
	for _, r := range rows {
		tbl.Append(r)
	}
	batch, err := record.Extract(tbl, "Program External ID", []string{"Hours Note"})
	require.NoError(t, err)
	return batch
}

func hoursResult(id, raw, value string) synth.Result {
	return synth.Result{
		ID:     id,
		Raw:    raw,
		Fields: validate.Fields{validate.FieldHours: value},
		State:  severity.NewRecord(validate.FieldHours),
	}
}

func TestHoursExpandsOneRowPerEntry(t *testing.T) {
	batch := hoursBatch(t, table.Row{
		"Program External ID": "PRG-1",
		"Program Name":        "Pantry",
		"Hours Note":          "Mon and Tue 10-4",
	})
	res := hoursResult("PRG-1", "Mon and Tue 10-4",
		"Monday,10:00,16:00,,,,,,,,Weekly,,;Tuesday,10:00,16:00,,,,,,,,Weekly,,")

	out, _ := Hours(batch, []synth.Result{res}, hoursfmt.V1)

	require.Len(t, out.Rows, 2, "row count may exceed input row count")
	for i, day := range []string{"Monday", "Tuesday"} {
		assert.Equal(t, "PRG-1", out.Rows[i]["Program External ID"])
		assert.Equal(t, "Pantry", out.Rows[i]["Program Name"])
		assert.Equal(t, day, out.Rows[i]["Day of Week"])
		assert.Equal(t, "10:00", out.Rows[i]["Open Time"])
		assert.Equal(t, "16:00", out.Rows[i]["Close Time"])
		assert.Equal(t, "Weekly", out.Rows[i]["Frequency"])
	}
}

func TestHoursRejectedRecordKeepsRawInOneRow(t *testing.T) {
	batch := hoursBatch(t, table.Row{
		"Program External ID": "PRG-1",
		"Hours Note":          "open whenever",
	})
	res := hoursResult("PRG-1", "open whenever", "gibberish response")
	res.State.Escalate(validate.FieldHours, severity.Error,
		`Hours entry "gibberish response" does not have 13 columns.`)

	out, hl := Hours(batch, []synth.Result{res}, hoursfmt.V1)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "open whenever", out.Rows[0]["Day of Week"],
		"rejected output reverts to the raw text")
	assert.Equal(t, table.ClassError, hl.Get(0, "Day of Week"))
	assert.Contains(t, out.Rows[0][AuditColumn], "does not have 13 columns")
}

func TestHoursNoRecordLoss(t *testing.T) {
	batch := hoursBatch(t,
		table.Row{"Program External ID": "PRG-1", "Hours Note": "a"},
		table.Row{"Program External ID": "PRG-2", "Hours Note": "b"},
		table.Row{"Program External ID": "PRG-3", "Hours Note": "c"},
	)
	results := []synth.Result{
		hoursResult("PRG-1", "a", "Monday,10:00,16:00,,,,,,,,Weekly,,"),
		hoursResult("PRG-2", "b", ""),
		hoursResult("PRG-3", "c", "nonsense"),
	}
	results[2].State.Escalate(validate.FieldHours, severity.Error, "bad")

	out, _ := Hours(batch, results, hoursfmt.V1)

	keys := make(map[string]bool)
	for _, row := range out.Rows {
		keys[row["Program External ID"]] = true
	}
	assert.Len(t, keys, 3, "every primary key survives projection")
}

func TestHoursV2SchemaHasFourteenEntryColumns(t *testing.T) {
	batch := hoursBatch(t, table.Row{"Program External ID": "PRG-1", "Hours Note": "x"})
	out, _ := Hours(batch, []synth.Result{
		hoursResult("PRG-1", "x", "Monday,10:00,16:00,,,,,,,,Weekly,,,"),
	}, hoursfmt.V2)

	assert.Contains(t, out.Columns, "Reserved 8")
	assert.Equal(t, "Monday", out.Rows[0]["Day of Week"])
}

func TestTagsMergeUsesGivenFields(t *testing.T) {
	tbl := table.New([]string{"ID", "Location Name"})
	tbl.Append(table.Row{"ID": "L-1", "Location Name": "Pantry"})
	batch, err := record.Extract(tbl, "ID", []string{"Location Name"})
	require.NoError(t, err)

	res := synth.Result{
		ID:  "L-1",
		Raw: batch.Records[0].Raw,
		Fields: validate.Fields{
			synth.FieldLanguages: "English/Spanish",
			synth.FieldFeatures:  "NA",
		},
		State: severity.NewRecord(synth.FieldLanguages, synth.FieldFeatures),
	}

	out, _ := Tags(batch, []synth.Result{res},
		[]string{synth.FieldLanguages, synth.FieldFeatures})

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "English/Spanish", out.Rows[0][synth.FieldLanguages])
	assert.Contains(t, out.Columns, synth.FieldFeatures)
}
