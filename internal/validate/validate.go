// Package validate implements the battery of named validation predicates
// that grade synthesized fields against format, consistency, and provenance
// rules. Validators are independent and composable: each reads only the
// original raw text and the synthesized values, and escalates severity for
// the fields it governs through the monotonic-max rule, so running the
// battery in any order produces the same final severities.
package validate

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"bulkclean/internal/logging"
	"bulkclean/internal/severity"
)

// Fields holds the synthesized values for one record, keyed by semantic
// field name.
type Fields map[string]string

// Get returns a field value, with absent fields reading as the NA sentinel
// rather than a silently-valid empty string.
func (f Fields) Get(name string) string {
	v, ok := f[name]
	if !ok {
		return SentinelNA
	}
	return v
}

// SentinelNA is the absent-value marker; it is always format- and
// provenance-valid.
const SentinelNA = "NA"

// Validator is one named predicate over a record's raw text and synthesized
// fields.
type Validator interface {
	Name() string
	// Validate inspects raw and fields and escalates severity on rec for
	// the fields it governs. It never mutates raw or fields.
	Validate(raw string, fields Fields, rec *severity.Record)
}

// Battery runs a registered set of validators over a record.
type Battery struct {
	validators []Validator
	log        *zap.Logger
}

// NewBattery creates a battery from the given validators.
func NewBattery(vs ...Validator) *Battery {
	return &Battery{
		validators: vs,
		log:        logging.Get(logging.CategoryValidate),
	}
}

// Register appends a validator to the battery.
func (b *Battery) Register(v Validator) {
	b.validators = append(b.validators, v)
}

// Names lists the registered validator names in registration order.
func (b *Battery) Names() []string {
	out := make([]string, len(b.validators))
	for i, v := range b.validators {
		out[i] = v.Name()
	}
	return out
}

// Run applies every validator to the record.
func (b *Battery) Run(raw string, fields Fields, rec *severity.Record) {
	for _, v := range b.validators {
		before := rec.Max()
		v.Validate(raw, fields, rec)
		if after := rec.Max(); after > before {
			b.log.Debug("validator escalated",
				zap.String("validator", v.Name()),
				zap.String("severity", after.String()))
		}
	}
}

// Normalize lowercases and strips punctuation for provenance comparisons:
// a synthesized token matches the source if its normalized form is a
// substring of the normalized raw text.
func Normalize(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Traceable reports whether the token can be traced to the raw text under
// the normalized comparison. The NA sentinel is always traceable.
func Traceable(token, raw string) bool {
	if token == SentinelNA || token == "" {
		return true
	}
	norm := Normalize(token)
	if norm == "" {
		return false
	}
	return strings.Contains(Normalize(raw), norm)
}

// digits strips everything but digits, for phone-number comparisons.
func digits(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
