// Package hoursfmt implements the delimited pseudo-CSV mini-format used for
// weekly hours blocks inside a single text field. A raw value holds one or
// more entries separated by ";"; each entry is a fixed-width sequence of
// comma-separated columns in a known position order.
//
// Decoding is deliberately tolerant: malformed text never aborts a batch, it
// produces entries whose column accessors report missing so the validator
// battery can grade the failure instead.
package hoursfmt

import "strings"

// Delimiters of the mini-format.
const (
	EntrySeparator = ";"
	FieldSeparator = ","
)

// Version selects the fixed column count of the format.
type Version int

const (
	// V1 is the 13-column layout.
	V1 Version = 1
	// V2 is the 14-column layout with one extra trailing reserved column.
	V2 Version = 2
)

// Columns returns the fixed per-entry column count for the version.
func (v Version) Columns() int {
	if v == V2 {
		return 14
	}
	return 13
}

// Column positions shared by both versions. Positions 3-7 and everything
// after Recurrence are reserved and must stay empty.
const (
	ColDay = iota
	ColOpenTime
	ColCloseTime
	colReservedFirst       // 3
	colReservedLast    = 7 // inclusive
	ColWeekOfMonth     = 8
	ColDayOfMonth      = 9
	ColRecurrence      = 10
	colTrailingFirst   = 11
)

// Entry is one decoded hours block: a fixed-length ordered sequence of
// column values. A malformed entry keeps its raw text but reports every
// column as missing.
type Entry struct {
	cols []string
	raw  string
	ver  Version
}

// NewEntry builds a well-formed entry from explicit column values. Intended
// for encoders and tests; the column slice must match the version's width.
func NewEntry(ver Version, cols []string) Entry {
	if len(cols) != ver.Columns() {
		return Entry{raw: strings.Join(cols, FieldSeparator), ver: ver}
	}
	return Entry{cols: cols, raw: strings.Join(cols, FieldSeparator), ver: ver}
}

// Malformed reports whether the entry failed to decode to the fixed column
// count.
func (e Entry) Malformed() bool { return e.cols == nil }

// Raw returns the original text of the entry, malformed or not.
func (e Entry) Raw() string { return e.raw }

// Col returns the value at a position. ok is false when the entry is
// malformed or the position is out of range.
func (e Entry) Col(i int) (string, bool) {
	if e.cols == nil || i < 0 || i >= len(e.cols) {
		return "", false
	}
	return e.cols[i], true
}

// Day returns the day-of-week column.
func (e Entry) Day() (string, bool) { return e.Col(ColDay) }

// OpenTime returns the opening time column.
func (e Entry) OpenTime() (string, bool) { return e.Col(ColOpenTime) }

// CloseTime returns the closing time column.
func (e Entry) CloseTime() (string, bool) { return e.Col(ColCloseTime) }

// WeekOfMonth returns the week-of-month recurrence ordinal column.
func (e Entry) WeekOfMonth() (string, bool) { return e.Col(ColWeekOfMonth) }

// DayOfMonth returns the day-of-month recurrence ordinal column.
func (e Entry) DayOfMonth() (string, bool) { return e.Col(ColDayOfMonth) }

// Recurrence returns the recurrence-type column.
func (e Entry) Recurrence() (string, bool) { return e.Col(ColRecurrence) }

// ReservedPositions lists the column indexes that must always be empty for
// the entry's version.
func (e Entry) ReservedPositions() []int {
	var out []int
	for i := colReservedFirst; i <= colReservedLast; i++ {
		out = append(out, i)
	}
	for i := colTrailingFirst; i < e.ver.Columns(); i++ {
		out = append(out, i)
	}
	return out
}

// Decode parses a raw mini-format value into its entries. It never fails:
// an entry with the wrong column count decodes as malformed, and an entirely
// empty value decodes to a single malformed entry rather than an empty
// sequence, so no record silently vanishes from the results.
func Decode(ver Version, text string) []Entry {
	text = strings.TrimSpace(text)
	if text == "" {
		return []Entry{{raw: "", ver: ver}}
	}

	parts := strings.Split(text, EntrySeparator)
	entries := make([]Entry, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			// Trailing or doubled separator, not an entry.
			continue
		}
		cols := strings.Split(part, FieldSeparator)
		if len(cols) != ver.Columns() {
			entries = append(entries, Entry{raw: part, ver: ver})
			continue
		}
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}
		entries = append(entries, Entry{cols: cols, raw: part, ver: ver})
	}
	if len(entries) == 0 {
		entries = append(entries, Entry{raw: text, ver: ver})
	}
	return entries
}

// Encode renders entries back to mini-format text. Malformed entries emit
// their raw text unchanged, so decode/encode round-trips preserve content.
func Encode(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Malformed() {
			parts = append(parts, e.raw)
			continue
		}
		parts = append(parts, strings.Join(e.cols, FieldSeparator))
	}
	return strings.Join(parts, EntrySeparator)
}

// ExpandRows produces one output row per entry: the carried-over non-target
// prefix columns, the entry's columns, and a blank trailing marker column.
// Malformed entries contribute a row with the raw text in the first entry
// column and the rest blank.
func ExpandRows(prefix []string, entries []Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		row := make([]string, 0, len(prefix)+e.ver.Columns()+1)
		row = append(row, prefix...)
		if e.Malformed() {
			cells := make([]string, e.ver.Columns())
			cells[0] = e.raw
			row = append(row, cells...)
		} else {
			row = append(row, e.cols...)
		}
		row = append(row, "") // trailing marker column
		rows = append(rows, row)
	}
	return rows
}
