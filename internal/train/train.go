// Package train exports prompt/completion pairs from a reviewed table as
// JSONL for fine-tune preparation. Completions carry the stop token so the
// tuned model learns to terminate its answers.
package train

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"bulkclean/internal/table"
)

// StopToken is appended to every completion.
const StopToken = "%%"

// Example is one fine-tune pair.
type Example struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// Export writes one JSON line per table row, taking the prompt from
// inputColumn and the completion from outputColumn.
func Export(w io.Writer, t *table.Table, inputColumn, outputColumn string) (int, error) {
	if !t.HasColumn(inputColumn) {
		return 0, fmt.Errorf("input column %q not present", inputColumn)
	}
	if !t.HasColumn(outputColumn) {
		return 0, fmt.Errorf("output column %q not present", outputColumn)
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, row := range t.Rows {
		ex := Example{
			Prompt:     row[inputColumn],
			Completion: row[outputColumn] + StopToken,
		}
		if err := enc.Encode(ex); err != nil {
			return i, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return len(t.Rows), bw.Flush()
}

// ExportFile converts a tabular file to a JSONL file on disk.
func ExportFile(inputPath, outputPath, inputColumn, outputColumn string) (int, error) {
	t, err := table.Read(inputPath)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outputPath, err)
	}
	defer f.Close()

	n, err := Export(f, t, inputColumn, outputColumn)
	if err != nil {
		return n, err
	}
	return n, f.Close()
}
