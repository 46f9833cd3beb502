package validate

import (
	"fmt"
	"regexp"
	"strings"

	"bulkclean/internal/severity"
)

// Contact field names as they appear in synthesized output.
const (
	FieldNumber    = "Number"
	FieldEmail     = "Email"
	FieldName      = "Name"
	FieldExtension = "Extension"
)

var (
	numberPattern = regexp.MustCompile(`^[0-9]{3}-[0-9]{3}-[0-9]{4}$`)
	emailPattern  = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)
	digitPattern  = regexp.MustCompile(`^[0-9]+$`)
)

// extensionKeywords are the markers that justify an extension being present
// in the source text.
var extensionKeywords = []string{"ext.", "ext", "extension", "x."}

// ContactBattery assembles the full validator set for primary contact
// records.
func ContactBattery() *Battery {
	return NewBattery(
		numberFormat{},
		numberProvenance{},
		emailFormat{},
		emailProvenance{},
		nameFormat{},
		nameProvenance{},
		extensionFormat{},
		extensionProvenance{},
		extensionKeyword{},
		extensionInNumber{},
		extensionWithoutNumber{},
	)
}

type numberFormat struct{}

func (numberFormat) Name() string { return "number-format" }

func (numberFormat) Validate(_ string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldNumber)
	if v == SentinelNA || numberPattern.MatchString(v) {
		return
	}
	rec.Escalate(FieldNumber, severity.Error,
		"Number formatting is not valid (###-###-####).")
}

type numberProvenance struct{}

func (numberProvenance) Name() string { return "number-provenance" }

// Phone numbers are compared digits-only so the source may carry any mix of
// dashes, parentheses, dots, and spaces.
func (numberProvenance) Validate(raw string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldNumber)
	if v == SentinelNA {
		return
	}
	if !strings.Contains(digits(raw), digits(v)) {
		rec.Escalate(FieldNumber, severity.Error,
			"Number not found within original contact information.")
	}
}

type emailFormat struct{}

func (emailFormat) Name() string { return "email-format" }

func (emailFormat) Validate(_ string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldEmail)
	if v == SentinelNA || emailPattern.MatchString(v) {
		return
	}
	rec.Escalate(FieldEmail, severity.Error, "Email formatting is not valid.")
}

type emailProvenance struct{}

func (emailProvenance) Name() string { return "email-provenance" }

func (emailProvenance) Validate(raw string, fields Fields, rec *severity.Record) {
	if !Traceable(fields.Get(FieldEmail), raw) {
		rec.Escalate(FieldEmail, severity.Error,
			"Email not found within original contact information.")
	}
}

type nameFormat struct{}

func (nameFormat) Name() string { return "name-format" }

// A well-formed name is alphabetic words separated by single spaces, each
// word starting with a capital letter.
func (nameFormat) Validate(_ string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldName)
	if v == SentinelNA {
		return
	}
	words := strings.Fields(v)
	if len(words) == 0 || v != strings.Join(words, " ") {
		rec.Escalate(FieldName, severity.Error, "Name formatting is not valid.")
		return
	}
	for _, w := range words {
		if !isCapitalizedAlpha(w) {
			rec.Escalate(FieldName, severity.Error, "Name formatting is not valid.")
			return
		}
	}
}

func isCapitalizedAlpha(w string) bool {
	for i, r := range w {
		switch {
		case i == 0 && (r < 'A' || r > 'Z'):
			return false
		case i > 0 && !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			return false
		}
	}
	return w != ""
}

type nameProvenance struct{}

func (nameProvenance) Name() string { return "name-provenance" }

// Each word of the name must be traceable on its own, so a model that
// stitches a first name from one place and a surname from nowhere is caught.
func (nameProvenance) Validate(raw string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldName)
	if v == SentinelNA {
		return
	}
	for _, w := range strings.Fields(v) {
		if !Traceable(w, raw) {
			rec.Escalate(FieldName, severity.Error,
				"Name not found within original contact information.")
			return
		}
	}
}

type extensionFormat struct{}

func (extensionFormat) Name() string { return "extension-format" }

func (extensionFormat) Validate(_ string, fields Fields, rec *severity.Record) {
	v := fields.Get(FieldExtension)
	if v == SentinelNA || digitPattern.MatchString(v) {
		return
	}
	rec.Escalate(FieldExtension, severity.Error, "Extension is not numerical.")
}

type extensionProvenance struct{}

func (extensionProvenance) Name() string { return "extension-provenance" }

func (extensionProvenance) Validate(raw string, fields Fields, rec *severity.Record) {
	if !Traceable(fields.Get(FieldExtension), raw) {
		rec.Escalate(FieldExtension, severity.Error,
			"Extension not found within original contact information.")
	}
}

type extensionKeyword struct{}

func (extensionKeyword) Name() string { return "extension-keyword" }

// An extension with no nearby keyword is suspect but not provably wrong, so
// this only flags for review.
func (extensionKeyword) Validate(raw string, fields Fields, rec *severity.Record) {
	if fields.Get(FieldExtension) == SentinelNA {
		return
	}
	lower := strings.ToLower(raw)
	for _, kw := range extensionKeywords {
		if strings.Contains(lower, kw) {
			return
		}
	}
	rec.Escalate(FieldExtension, severity.Warning,
		"Extension Keyword not found within original contact information.")
}

type extensionInNumber struct{}

func (extensionInNumber) Name() string { return "extension-in-number" }

// The model sometimes lifts the extension out of the middle of the phone
// number itself; that is a hallucination, not an extension.
func (extensionInNumber) Validate(_ string, fields Fields, rec *severity.Record) {
	ext := fields.Get(FieldExtension)
	num := fields.Get(FieldNumber)
	if ext == SentinelNA || num == SentinelNA {
		return
	}
	if strings.Contains(digits(num), ext) {
		rec.Escalate(FieldExtension, severity.Error,
			"Extension found within phone number.")
	}
}

type extensionWithoutNumber struct{}

func (extensionWithoutNumber) Name() string { return "extension-without-number" }

func (extensionWithoutNumber) Validate(_ string, fields Fields, rec *severity.Record) {
	if fields.Get(FieldExtension) != SentinelNA && fields.Get(FieldNumber) == SentinelNA {
		rec.Escalate(FieldExtension, severity.Error,
			"Extension present without phone number.")
	}
}

// RawSanity flags records whose raw input is outside the range the model
// handles reliably. It escalates every governed field so downstream review
// sees the flag regardless of which projection runs.
type RawSanity struct {
	// MaxLen is the raw-length ceiling; 0 disables the check.
	MaxLen int
	// Forbidden lists substrings the model is known to mishandle.
	Forbidden []string
	// Fields are the severity fields to flag.
	Fields []string
}

func (RawSanity) Name() string { return "raw-sanity" }

func (s RawSanity) Validate(raw string, _ Fields, rec *severity.Record) {
	var msg string
	switch {
	case s.MaxLen > 0 && len(raw) > s.MaxLen:
		msg = fmt.Sprintf("Original text exceeds %d characters.", s.MaxLen)
	default:
		for _, f := range s.Forbidden {
			if strings.Contains(raw, f) {
				msg = fmt.Sprintf("Original text contains unsupported character %q.", f)
				break
			}
		}
	}
	if msg == "" {
		return
	}
	for _, f := range s.Fields {
		rec.Escalate(f, severity.Warning, msg)
	}
}
