package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bulkclean/internal/completion"
	"bulkclean/internal/record"
	"bulkclean/internal/severity"
	"bulkclean/internal/table"
	"bulkclean/internal/validate"
)

func contactBatch(t *testing.T, cells ...string) *record.Batch {
	t.Helper()
	tbl := table.New([]string{"ID", "Contact Info"})
	for i, c := range cells {
		tbl.Append(table.Row{"ID": "P-" + string(rune('1'+i)), "Contact Info": c})
	}
	batch, err := record.Extract(tbl, "ID", []string{"Contact Info"})
	require.NoError(t, err)
	return batch
}

func newSynthesizer(client completion.Client, workers int) *Synthesizer {
	adapter := completion.NewAdapter(client, completion.NewGate(0, workers), completion.DefaultOptions())
	return New(adapter, workers)
}

func TestRunSynthesizesAllFields(t *testing.T) {
	mock := completion.NewMockClient().
		Respond("Extract the phone from", "603-654-4524%%").
		Respond("EMAIL ADDRESS", "johncena@vivery.org%%").
		Respond("first and last name", "John Cena%%").
		Respond("phone extension", "NA%%")

	batch := contactBatch(t, "John Cena, johncena@vivery.org, 603-654-4524")
	results, err := newSynthesizer(mock, 1).Run(context.Background(), batch, ContactFieldSpecs())
	require.NoError(t, err)
	require.Len(t, results, 1)

	res := results[0]
	assert.Equal(t, "P-1", res.ID)
	assert.False(t, res.Failed())
	assert.Equal(t, validate.Fields{
		validate.FieldNumber:    "603-654-4524",
		validate.FieldEmail:     "johncena@vivery.org",
		validate.FieldName:      "John Cena",
		validate.FieldExtension: "NA",
	}, res.Fields)
	assert.Equal(t, severity.Clean, res.State.Max())
}

func TestRunEmptyResponseBecomesSentinel(t *testing.T) {
	mock := completion.NewMockClient().Fallback("%%")

	batch := contactBatch(t, "nothing useful")
	results, err := newSynthesizer(mock, 1).Run(context.Background(), batch, HoursFieldSpecs())
	require.NoError(t, err)
	assert.Equal(t, record.Sentinel, results[0].Fields[validate.FieldHours])
}

func TestRunIsolatesRecordFailure(t *testing.T) {
	// The mock fails on the second record's case text only.
	mock := &flakyClient{failOn: "bad record"}

	batch := contactBatch(t, "John Cena, 603-654-4524", "bad record", "Mary Sue, 111-222-3333")
	results, err := newSynthesizer(mock, 1).Run(context.Background(), batch, ContactFieldSpecs())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Failed())
	assert.False(t, results[2].Failed())

	failed := results[1]
	assert.True(t, failed.Failed())
	assert.Equal(t, severity.Error, failed.State.Max())
	for _, f := range []string{validate.FieldNumber, validate.FieldEmail, validate.FieldName, validate.FieldExtension} {
		assert.Equal(t, record.Sentinel, failed.Fields[f])
		assert.Equal(t, severity.Error, failed.State.Level(f))
	}
	require.NotEmpty(t, failed.State.Trail())
	assert.Contains(t, failed.State.Trail()[0].Text, "Completion unavailable")
}

func TestRunKeepsBatchOrderUnderConcurrency(t *testing.T) {
	mock := completion.NewMockClient().Fallback("NA%%")

	batch := contactBatch(t, "a", "b", "c", "d", "e")
	results, err := newSynthesizer(mock, 4).Run(context.Background(), batch, HoursFieldSpecs())
	require.NoError(t, err)

	require.Len(t, results, len(batch.Records))
	for i, res := range results {
		assert.Equal(t, batch.Records[i].ID, res.ID)
	}
}

func TestRunHonorsContextCancellation(t *testing.T) {
	mock := completion.NewMockClient().Fallback("NA%%")
	adapter := completion.NewAdapter(mock, completion.NewGate(time.Hour, 1), completion.DefaultOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	batch := contactBatch(t, "a", "b")
	_, err := New(adapter, 2).Run(ctx, batch, HoursFieldSpecs())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestTagSpecsUseLabeledCase(t *testing.T) {
	mock := completion.NewMockClient().Fallback("NA%%")

	tbl := table.New([]string{"ID", "Location Name", "Location Overview"})
	tbl.Append(table.Row{"ID": "L-1", "Location Name": "Pantry", "Location Overview": "Free Wifi"})
	batch, err := record.Extract(tbl, "ID", []string{"Location Name", "Location Overview"})
	require.NoError(t, err)

	specs := TagFieldSpecs([]string{"Location Name", "Location Overview"})
	_, err = newSynthesizer(mock, 1).Run(context.Background(), batch, specs)
	require.NoError(t, err)

	prompts := mock.Prompts()
	require.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.Contains(t, p, `Location Name: 'Pantry'`)
		assert.Contains(t, p, `Location Overview: 'Free Wifi'`)
	}
}

// flakyClient fails any prompt containing failOn and answers NA otherwise.
type flakyClient struct {
	failOn string
}

func (c *flakyClient) Complete(_ context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, c.failOn) {
		return "", errors.New("backend unavailable")
	}
	return "NA%%", nil
}
