package severity

import "fmt"

// Message is one entry in a record's audit trail, tied to the field whose
// severity it explains. The trail is ordered and append-only; messages are
// never deduplicated or removed.
type Message struct {
	Field string
	Level Level
	Text  string
}

func (m Message) String() string {
	prefix := "ERROR"
	if m.Level == Warning {
		prefix = "WARNING"
	}
	return fmt.Sprintf("%s: %s", prefix, m.Text)
}

// Record tracks per-field severity and the audit trail for a single input
// record. All fields start at Clean. Mutation is scoped to one record, so a
// worker owns its Record without locking.
type Record struct {
	levels map[string]Level
	trail  []Message
}

// NewRecord creates a record state with every named field at Clean.
func NewRecord(fields ...string) *Record {
	levels := make(map[string]Level, len(fields))
	for _, f := range fields {
		levels[f] = Clean
	}
	return &Record{levels: levels}
}

// Level returns the current severity of a field. Unknown fields read as Clean.
func (r *Record) Level(field string) Level {
	return r.levels[field]
}

// Escalate raises a field to at least the given level and appends the
// explanation to the audit trail. Severity never decreases here.
func (r *Record) Escalate(field string, to Level, text string) {
	r.levels[field] = r.levels[field].Escalate(to)
	r.trail = append(r.trail, Message{Field: field, Level: to, Text: text})
}

// MarkRepaired performs the explicit repair transition: the one permitted
// severity decrease, used purely for audit marking.
func (r *Record) MarkRepaired(field string) {
	r.levels[field] = Repaired
}

// ClearTrail drops accumulated messages ahead of a post-repair re-validation.
// Severity levels are untouched.
func (r *Record) ClearTrail() {
	r.trail = nil
}

// Trail returns the ordered audit messages accumulated so far.
func (r *Record) Trail() []Message {
	return r.trail
}

// TrailFor returns the audit messages concerning one field, in order.
func (r *Record) TrailFor(field string) []Message {
	var out []Message
	for _, m := range r.trail {
		if m.Field == field {
			out = append(out, m)
		}
	}
	return out
}

// Max returns the highest severity across all tracked fields.
func (r *Record) Max() Level {
	max := Repaired
	first := true
	for _, l := range r.levels {
		if first || l > max {
			max = l
			first = false
		}
	}
	if first {
		return Clean
	}
	return max
}

// Fields returns the tracked field names in no particular order.
func (r *Record) Fields() []string {
	out := make([]string, 0, len(r.levels))
	for f := range r.levels {
		out = append(out, f)
	}
	return out
}
