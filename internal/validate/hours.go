package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bulkclean/internal/hoursfmt"
	"bulkclean/internal/severity"
)

// FieldHours is the severity field all hours validators escalate. Entries
// within one record succeed or fail together, so a single field carries the
// whole record's grade.
const FieldHours = "Hours"

var (
	clockPattern   = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	ordinalPattern = regexp.MustCompile(`^[0-9]+$`)
)

// dayNames is the closed day-of-week vocabulary.
var dayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// Recurrence type vocabulary.
const (
	RecurWeekly         = "Weekly"
	RecurEveryOtherWeek = "Every Other Week"
	RecurDayOfMonth     = "Day of Month"
	RecurWeekOfMonth    = "Week of Month"
)

var recurrenceTypes = map[string]bool{
	RecurWeekly:         true,
	RecurEveryOtherWeek: true,
	RecurDayOfMonth:     true,
	RecurWeekOfMonth:    true,
}

// HoursBattery assembles the validator set for hours records in the given
// mini-format version.
func HoursBattery(ver hoursfmt.Version) *Battery {
	return NewBattery(
		entryArity{ver},
		dayEnum{ver},
		timeFormat{ver},
		closeAfterOpen{ver},
		recurrenceEnum{ver},
		ordinalConsistency{ver},
		reservedEmpty{ver},
	)
}

type entryArity struct{ ver hoursfmt.Version }

func (entryArity) Name() string { return "entry-arity" }

func (v entryArity) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		if !e.Malformed() {
			continue
		}
		if e.Raw() == "" {
			rec.Escalate(FieldHours, severity.Error,
				"No hours could be read from the response.")
			continue
		}
		rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
			"Hours entry %q does not have %d columns.", e.Raw(), v.ver.Columns()))
	}
}

type dayEnum struct{ ver hoursfmt.Version }

func (dayEnum) Name() string { return "day-enum" }

func (v dayEnum) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		day, ok := e.Day()
		if !ok {
			continue
		}
		if !dayNames[day] {
			rec.Escalate(FieldHours, severity.Error,
				fmt.Sprintf("Day %q is not a valid day of the week.", day))
		}
	}
}

type timeFormat struct{ ver hoursfmt.Version }

func (timeFormat) Name() string { return "time-format" }

func (v timeFormat) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		for _, col := range []int{hoursfmt.ColOpenTime, hoursfmt.ColCloseTime} {
			t, ok := e.Col(col)
			if !ok {
				continue
			}
			if !clockPattern.MatchString(t) {
				rec.Escalate(FieldHours, severity.Error,
					fmt.Sprintf("Time %q is not in 24-hour H:MM format.", t))
			}
		}
	}
}

type closeAfterOpen struct{ ver hoursfmt.Version }

func (closeAfterOpen) Name() string { return "close-after-open" }

// Unparseable times fail closed: a comparison that cannot run is an error,
// not a pass.
func (v closeAfterOpen) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		open, okO := e.OpenTime()
		cls, okC := e.CloseTime()
		if !okO || !okC {
			continue
		}
		openMin, err1 := parseClock(open)
		closeMin, err2 := parseClock(cls)
		if err1 != nil || err2 != nil {
			rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
				"Open and close times %q and %q could not be compared.", open, cls))
			continue
		}
		if closeMin <= openMin {
			rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
				"Close time %s is not later than open time %s.", cls, open))
		}
	}
}

// parseClock converts an H:MM or HH:MM 24-hour time to minutes past midnight.
func parseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	h, m, _ := strings.Cut(s, ":")
	hh, _ := strconv.Atoi(h)
	mm, _ := strconv.Atoi(m)
	return hh*60 + mm, nil
}

type recurrenceEnum struct{ ver hoursfmt.Version }

func (recurrenceEnum) Name() string { return "recurrence-enum" }

func (v recurrenceEnum) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		r, ok := e.Recurrence()
		if !ok {
			continue
		}
		if !recurrenceTypes[r] {
			rec.Escalate(FieldHours, severity.Error,
				fmt.Sprintf("Recurrence %q is not a recognized pattern.", r))
		}
	}
}

type ordinalConsistency struct{ ver hoursfmt.Version }

func (ordinalConsistency) Name() string { return "ordinal-consistency" }

// Month-based recurrences need exactly the matching ordinal column filled,
// and the ordinal must echo a keyword in the source text. Weekly patterns
// must carry no ordinal at all.
func (v ordinalConsistency) Validate(raw string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		recur, ok := e.Recurrence()
		if !ok {
			continue
		}
		week, _ := e.WeekOfMonth()
		day, _ := e.DayOfMonth()

		switch recur {
		case RecurWeekly, RecurEveryOtherWeek:
			if week != "" || day != "" {
				rec.Escalate(FieldHours, severity.Error,
					fmt.Sprintf("Recurrence %q must not carry a monthly ordinal.", recur))
			}
		case RecurWeekOfMonth:
			v.checkOrdinal(raw, recur, week, day, rec)
		case RecurDayOfMonth:
			v.checkOrdinal(raw, recur, day, week, rec)
		}
	}
}

func (ordinalConsistency) checkOrdinal(raw, recur, want, other string, rec *severity.Record) {
	if other != "" {
		rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
			"Recurrence %q carries an ordinal in the wrong column.", recur))
	}
	if want == "" {
		rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
			"Recurrence %q requires a monthly ordinal.", recur))
		return
	}
	if !ordinalPattern.MatchString(want) {
		rec.Escalate(FieldHours, severity.Error,
			fmt.Sprintf("Monthly ordinal %q is not numeric.", want))
		return
	}
	if !ordinalInText(raw, want) {
		rec.Escalate(FieldHours, severity.Warning, fmt.Sprintf(
			"Monthly ordinal %s is not mentioned in the original hours text.", want))
	}
}

// ordinalWords covers the spelled-out forms that appear in source text.
var ordinalWords = map[int][]string{
	1: {"first", "1st"}, 2: {"second", "2nd"}, 3: {"third", "3rd"},
	4: {"fourth", "4th"}, 5: {"fifth", "5th", "last"},
}

// ordinalInText reports whether the numeric ordinal is corroborated by a
// keyword in the raw text, in digit, suffixed, or spelled-out form.
func ordinalInText(raw, ordinal string) bool {
	lower := strings.ToLower(raw)
	n, err := strconv.Atoi(ordinal)
	if err != nil {
		return false
	}
	candidates := append([]string(nil), ordinalWords[n]...)
	candidates = append(candidates, ordinal+ordinalSuffix(n), ordinal)
	for _, c := range candidates {
		if strings.Contains(lower, c) {
			return true
		}
	}
	return false
}

func ordinalSuffix(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

type reservedEmpty struct{ ver hoursfmt.Version }

func (reservedEmpty) Name() string { return "reserved-empty" }

func (v reservedEmpty) Validate(_ string, fields Fields, rec *severity.Record) {
	for _, e := range hoursfmt.Decode(v.ver, fields.Get(FieldHours)) {
		for _, pos := range e.ReservedPositions() {
			val, ok := e.Col(pos)
			if !ok {
				break
			}
			if val != "" {
				rec.Escalate(FieldHours, severity.Error, fmt.Sprintf(
					"Reserved column %d must be empty, found %q.", pos, val))
			}
		}
	}
}
