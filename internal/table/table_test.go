package table

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in.csv")

	src := New([]string{"Program External ID", "Hours Note", "Contact"})
	src.Append(Row{"Program External ID": "P-1", "Hours Note": "Mon-Fri,10:00:00 AM,4:00:00 PM", "Contact": "John Cena"})
	src.Append(Row{"Program External ID": "P-2", "Hours Note": "", "Contact": "jane@vivery.org"})

	require.NoError(t, WriteCSV(path, src))

	got, err := ReadCSV(path)
	require.NoError(t, err)

	if diff := cmp.Diff(src.Columns, got.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(src.Rows, got.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVRaggedRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ragged.csv")
	err := os.WriteFile(path, []byte("ID,Name,Phone\n1,John\n2,Jane,555-123-4567,extra\n"), 0o644)
	require.NoError(t, err)

	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)
	require.Equal(t, "", got.Cell(0, "Phone"), "short row reads as blank")
	require.Equal(t, "555-123-4567", got.Cell(1, "Phone"))
}

func TestReadCSVMissingHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadCSV(path)
	require.Error(t, err)
}

func TestXLSXRoundTripWithHighlights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	src := New([]string{"ID", "Number", "Email"})
	src.Append(Row{"ID": "1", "Number": "603-654-4524", "Email": "johncena@vivery.org"})
	src.Append(Row{"ID": "2", "Number": "NA", "Email": "NA"})

	hl := NewHighlights()
	hl.Set(0, "Number", ClassWarning)
	hl.Set(1, "Email", ClassError)

	require.NoError(t, WriteXLSX(path, src, hl))

	got, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Equal(t, src.Columns, got.Columns)
	require.Len(t, got.Rows, 2)
	require.Equal(t, "603-654-4524", got.Cell(0, "Number"))
	// excelize reads trailing blank cells as absent; values survive.
	require.Equal(t, "NA", got.Cell(1, "Number"))
}

func TestHighlightsSetAndClear(t *testing.T) {
	hl := NewHighlights()
	hl.Set(3, "Name", ClassError)
	require.Equal(t, ClassError, hl.Get(3, "Name"))

	hl.Set(3, "Name", ClassNone)
	require.Equal(t, ClassNone, hl.Get(3, "Name"))

	var nilHL *Highlights
	require.Equal(t, ClassNone, nilHL.Get(0, "Name"), "nil highlights are inert")
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		in, suffix, want string
	}{
		{"datafiles/contacts.csv", "_PRIMARY_CONTACTS", "datafiles/contacts_PRIMARY_CONTACTS.xlsx"},
		{"upload.xlsx", "_CLEAN_HOURS", "upload_CLEAN_HOURS.xlsx"},
	}
	for _, tc := range cases {
		if got := OutputPath(tc.in, tc.suffix); got != tc.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
