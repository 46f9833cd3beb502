package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"bulkclean/internal/completion"
	"bulkclean/internal/config"
	"bulkclean/internal/table"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.MinCallInterval = "0s"
	cfg.Batch.Workers = 2
	cfg.Contacts.PrimaryKey = "ID"
	cfg.Contacts.SourceColumns = []string{"Contact Info"}
	cfg.Hours.PrimaryKey = "ID"
	cfg.Hours.SourceColumns = []string{"Hours Note"}
	return cfg
}

func mockFactory(mock *completion.MockClient) ClientFactory {
	return func(context.Context, *config.Config, completion.Options) (completion.Client, error) {
		return mock, nil
	}
}

func writeCSV(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunContactsEndToEnd(t *testing.T) {
	mock := completion.NewMockClient().
		Respond("Extract the phone from", "603-654-4524%%").
		Respond("EMAIL ADDRESS", "johncena@vivery.org%%").
		Respond("first and last name", "John Cena%%").
		Respond("phone extension", "NA%%")

	dir := t.TempDir()
	input := writeCSV(t, dir, "contacts.csv",
		"ID,Region,Contact Info\nP-1,North,\"John Cena, johncena@vivery.org, 603-654-4524\"\n")

	out, err := New(testConfig(), mockFactory(mock)).RunContacts(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "contacts_PRIMARY_CONTACTS.xlsx"), out)

	result, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	row := result.Rows[0]
	assert.Equal(t, "P-1", row["ID"])
	assert.Equal(t, "North", row["Region"])
	assert.Equal(t, "603-654-4524", row["Number"])
	assert.Equal(t, "johncena@vivery.org", row["Email"])
	assert.Equal(t, "John Cena", row["Name"])
	assert.Equal(t, "NA", row["Extension"])
}

func TestRunContactsRepairsBadNumber(t *testing.T) {
	// The model returns an unformatted number; deterministic repair pulls
	// the dashed form out of the raw text.
	mock := completion.NewMockClient().
		Respond("Extract the phone from", "(603) 654-4524%%").
		Respond("EMAIL ADDRESS", "NA%%").
		Respond("first and last name", "John Cena%%").
		Respond("phone extension", "NA%%")

	dir := t.TempDir()
	input := writeCSV(t, dir, "contacts.csv",
		"ID,Contact Info\nP-1,\"John Cena, 603-654-4524\"\n")

	out, err := New(testConfig(), mockFactory(mock)).RunContacts(context.Background(), input)
	require.NoError(t, err)

	result, err := table.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "603-654-4524", result.Rows[0]["Number"])
}

func TestRunContactsFailedRecordStillInOutput(t *testing.T) {
	mock := completion.NewMockClient().Fail(assert.AnError)

	dir := t.TempDir()
	input := writeCSV(t, dir, "contacts.csv",
		"ID,Contact Info\nP-1,something\n")

	out, err := New(testConfig(), mockFactory(mock)).RunContacts(context.Background(), input)
	require.NoError(t, err)

	result, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "something", result.Rows[0]["Number"],
		"rejected fields revert to the raw text")
	assert.Contains(t, result.Rows[0]["Validation Notes"], "Completion unavailable")
}

func TestRunHoursExpandsEntries(t *testing.T) {
	mock := completion.NewMockClient().Fallback(
		"Monday,10:00,16:00,,,,,,,,Weekly,,;Tuesday,10:00,16:00,,,,,,,,Weekly,,%%")

	dir := t.TempDir()
	input := writeCSV(t, dir, "hours.csv",
		"ID,Hours Note\nPRG-1,Mon and Tue 10am to 4pm\n")

	out, err := New(testConfig(), mockFactory(mock)).RunHours(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hours_CLEANED_HOURS.xlsx"), out)

	result, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Monday", result.Rows[0]["Day of Week"])
	assert.Equal(t, "Tuesday", result.Rows[1]["Day of Week"])
	assert.Equal(t, "PRG-1", result.Rows[1]["ID"])
}

func TestRunHoursRejectsBadSchedule(t *testing.T) {
	mock := completion.NewMockClient().Fallback("Monday,14:00,13:00,,,,,,,,Weekly,,%%")

	dir := t.TempDir()
	input := writeCSV(t, dir, "hours.csv",
		"ID,Hours Note\nPRG-1,open 2pm to 1pm somehow\n")

	out, err := New(testConfig(), mockFactory(mock)).RunHours(context.Background(), input)
	require.NoError(t, err)

	result, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "open 2pm to 1pm somehow", result.Rows[0]["Day of Week"],
		"close before open rejects the record")
	assert.Contains(t, result.Rows[0]["Validation Notes"], "not later than open time")
}

func TestRunTagsEndToEnd(t *testing.T) {
	mock := completion.NewMockClient().
		Respond("what languages are spoken", "English%%").
		Respond("location features", "WiFi Available%%")

	cfg := testConfig()
	cfg.Tags.PrimaryKey = "ID"
	cfg.Tags.Columns = []string{"Location Name", "Location Overview"}

	dir := t.TempDir()
	input := writeCSV(t, dir, "locations.csv",
		"ID,Location Name,Location Overview\nL-1,Famous Food Pantry,Free WiFi Available on site\n")

	out, err := New(cfg, mockFactory(mock)).RunTags(context.Background(), input)
	require.NoError(t, err)

	result, err := table.Read(out)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "English", result.Rows[0]["Languages Spoken"])
	assert.Equal(t, "WiFi Available", result.Rows[0]["Location Features"])
}

func TestRunContactsMissingColumnFailsFast(t *testing.T) {
	mock := completion.NewMockClient().Fallback("NA%%")

	dir := t.TempDir()
	input := writeCSV(t, dir, "contacts.csv", "ID,Other\nP-1,x\n")

	_, err := New(testConfig(), mockFactory(mock)).RunContacts(context.Background(), input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `source column "Contact Info" not present`)
	assert.Empty(t, mock.Prompts(), "no model calls before extraction succeeds")
}
