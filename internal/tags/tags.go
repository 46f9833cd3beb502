// Package tags holds the closed vocabularies for location tagging and the
// deterministic cross-check applied on top of the model's tag output.
package tags

import (
	"fmt"
	"strings"

	"bulkclean/internal/severity"
	"bulkclean/internal/synth"
	"bulkclean/internal/validate"
)

// LocationFeatures is the closed feature vocabulary, matching the prompt's
// feature list exactly.
var LocationFeatures = []string{
	"Air Conditioning",
	"Near Public Transit",
	"Parking Available",
	"Restroom Available",
	"Safe Space",
	"Seating in Waiting Area",
	"Wheelchair Accessible",
	"WiFi Available",
}

// Languages is the closed language vocabulary accepted for the Languages
// Spoken tag.
var Languages = []string{
	"English", "Spanish", "French", "German", "Portuguese", "Italian",
	"Chinese", "Vietnamese", "Arabic", "Russian", "Korean", "Tagalog",
	"Haitian Creole", "Hindi", "Polish", "Somali",
}

// Battery assembles the enum-membership validators for tag fields.
func Battery() *validate.Battery {
	return validate.NewBattery(
		validate.EnumMembership{Field: synth.FieldLanguages, Allowed: Languages},
		validate.EnumMembership{Field: synth.FieldFeatures, Allowed: LocationFeatures},
	)
}

// Classifier is a deterministic second opinion on a location's text.
// Implementations never call the model.
type Classifier interface {
	// Features returns the vocabulary features the text plainly mentions.
	Features(text string) []string
	// Languages returns the languages the text is detectably written in.
	// An empty result means "no opinion", not "no languages".
	Languages(text string) []string
}

// KeywordClassifier is the default classifier: literal substring matching
// for features, no opinion on languages.
type KeywordClassifier struct{}

func (KeywordClassifier) Features(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, f := range LocationFeatures {
		if strings.Contains(lower, strings.ToLower(f)) {
			out = append(out, f)
		}
	}
	return out
}

func (KeywordClassifier) Languages(string) []string { return nil }

// Verify cross-checks one synthesized result against the classifier and
// flags disagreements. A feature the text names verbatim but the model left
// untagged is a miss worth a reviewer's glance, never a hard error.
func Verify(res *synth.Result, cls Classifier) {
	tagged := tokenSet(res.Fields.Get(synth.FieldFeatures))
	for _, f := range cls.Features(res.Raw) {
		if !tagged[f] {
			res.State.Escalate(synth.FieldFeatures, severity.Warning,
				fmt.Sprintf("Feature %q is mentioned in the text but not tagged.", f))
		}
	}

	spoken := tokenSet(res.Fields.Get(synth.FieldLanguages))
	for _, l := range cls.Languages(res.Raw) {
		if !spoken[l] {
			res.State.Escalate(synth.FieldLanguages, severity.Warning,
				fmt.Sprintf("Language %q was detected in the text but not tagged.", l))
		}
	}
}

func tokenSet(value string) map[string]bool {
	out := make(map[string]bool)
	if value == validate.SentinelNA {
		return out
	}
	for _, t := range strings.Split(value, "/") {
		if t = strings.TrimSpace(t); t != "" {
			out[t] = true
		}
	}
	return out
}
