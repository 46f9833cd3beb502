package train

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkclean/internal/table"
)

func TestExportWritesPromptCompletionPairs(t *testing.T) {
	tbl := table.New([]string{"Hours Note", "Cleaned"})
	tbl.Append(table.Row{"Hours Note": "Mon-Fri 10-4", "Cleaned": "Monday,10:00,16:00,,,,,,,,Weekly,,"})
	tbl.Append(table.Row{"Hours Note": `open "most" days`, "Cleaned": "NA"})

	var buf bytes.Buffer
	n, err := Export(&buf, tbl, "Hours Note", "Cleaned")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var examples []Example
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var ex Example
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ex), "each line is standalone JSON")
		examples = append(examples, ex)
	}

	require.Len(t, examples, 2)
	assert.Equal(t, "Mon-Fri 10-4", examples[0].Prompt)
	assert.Equal(t, "Monday,10:00,16:00,,,,,,,,Weekly,,%%", examples[0].Completion)
	assert.Equal(t, `open "most" days`, examples[1].Prompt, "quotes survive encoding")
	assert.Equal(t, "NA%%", examples[1].Completion)
}

func TestExportRejectsMissingColumns(t *testing.T) {
	tbl := table.New([]string{"A"})

	var buf bytes.Buffer
	_, err := Export(&buf, tbl, "missing", "A")
	assert.Error(t, err)
	_, err = Export(&buf, tbl, "A", "missing")
	assert.Error(t, err)
}

func TestExportFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "reviewed.csv")
	require.NoError(t, os.WriteFile(in, []byte("Q,A\nhello,world\n"), 0o644))

	out := filepath.Join(dir, "train.jsonl")
	n, err := ExportFile(in, out, "Q", "A")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt":"hello","completion":"world%%"}`, string(data))
}
