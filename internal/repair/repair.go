// Package repair applies the second-chance pass over flagged contact
// records. Deterministic extraction from the original text fixes what a
// regex can prove; the name field gets one more model call over a reduced
// case text. Repaired records are re-validated from a clean trail, so a
// repair that produced a new violation is caught, not trusted.
package repair

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"bulkclean/internal/completion"
	"bulkclean/internal/logging"
	"bulkclean/internal/record"
	"bulkclean/internal/severity"
	"bulkclean/internal/synth"
	"bulkclean/internal/validate"
)

var (
	emailExtract = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,7}\b`)
	// Phone candidates are matched anywhere in the text; the format
	// validator re-grades whatever comes out.
	numberExtract = regexp.MustCompile(`\b[0-9]{3}-[0-9]{3}-[0-9]{4}\b`)
)

// Repairer mutates synthesized contact results in place and re-runs the
// validator battery over each repaired record.
type Repairer struct {
	adapter *completion.Adapter
	battery *validate.Battery
	log     *zap.Logger
}

// New wires a repairer over the completion adapter used for the name retry
// and the battery used for re-validation.
func New(adapter *completion.Adapter, battery *validate.Battery) *Repairer {
	return &Repairer{
		adapter: adapter,
		battery: battery,
		log:     logging.Get(logging.CategoryRepair),
	}
}

// Run repairs every repairable result. Records that failed synthesis are
// left alone; their severity is already final.
func (r *Repairer) Run(ctx context.Context, results []synth.Result) {
	for i := range results {
		if results[i].Failed() {
			continue
		}
		r.repairRecord(ctx, &results[i])
	}
}

func (r *Repairer) repairRecord(ctx context.Context, res *synth.Result) {
	repaired := false
	repaired = r.repairExtension(res) || repaired
	repaired = r.repairByExtraction(res, validate.FieldEmail, emailExtract) || repaired
	repaired = r.repairByExtraction(res, validate.FieldNumber, numberExtract) || repaired
	repaired = r.repairName(ctx, res) || repaired
	if !repaired {
		return
	}

	// Severity levels survive the re-run: a field marked Repaired climbs
	// again only if the repaired value still violates a rule.
	res.State.ClearTrail()
	r.battery.Run(res.Raw, res.Fields, res.State)

	r.log.Debug("record repaired",
		zap.String("record", res.ID),
		zap.String("severity", res.State.Max().String()))
}

// needsRepair triggers on any flagged severity, and on NA values in case
// the first pass missed something the raw text does hold.
func needsRepair(res *synth.Result, field string) bool {
	return res.State.Level(field) > severity.Clean ||
		res.Fields.Get(field) == record.Sentinel
}

// repairExtension drops a flagged extension entirely. There is no reliable
// way to pull a bare extension out of free text, and no extension beats a
// wrong one.
func (r *Repairer) repairExtension(res *synth.Result) bool {
	if res.State.Level(validate.FieldExtension) <= severity.Clean {
		return false
	}
	if res.Fields[validate.FieldExtension] == record.Sentinel {
		return false
	}
	res.Fields[validate.FieldExtension] = record.Sentinel
	res.State.MarkRepaired(validate.FieldExtension)
	return true
}

// repairByExtraction replaces a flagged value with whatever the pattern
// finds in the original text. Multiple candidates are joined with "/" so a
// reviewer sees the ambiguity; the joined value fails format validation and
// stays flagged.
func (r *Repairer) repairByExtraction(res *synth.Result, field string, pattern *regexp.Regexp) bool {
	if !needsRepair(res, field) {
		return false
	}
	candidates := pattern.FindAllString(res.Raw, -1)
	value := record.Sentinel
	if len(candidates) > 0 {
		value = strings.Join(candidates, "/")
	}
	if value == res.Fields.Get(field) {
		return false
	}
	res.Fields[field] = value
	res.State.MarkRepaired(field)
	return true
}

// repairName retries the name prompt over the raw text with the structured
// fields blanked out, so the model cannot latch onto them again.
func (r *Repairer) repairName(ctx context.Context, res *synth.Result) bool {
	if !needsRepair(res, validate.FieldName) {
		return false
	}

	caseText := res.Raw
	for _, f := range []string{validate.FieldEmail, validate.FieldNumber, validate.FieldExtension} {
		if v := res.Fields.Get(f); v != record.Sentinel {
			caseText = strings.ReplaceAll(caseText, v, "")
		}
	}
	caseText = strings.TrimSpace(strings.ReplaceAll(caseText, ",", ""))

	value, err := r.adapter.Complete(ctx, synth.NameTemplate(), caseText, res.ID, validate.FieldName)
	if err != nil {
		// Leave the field as graded; re-validation will keep it flagged.
		r.log.Warn("name repair call failed",
			zap.String("record", res.ID), zap.Error(err))
		return false
	}
	if value == "" {
		value = record.Sentinel
	}
	if _, err := strconv.Atoi(value); err == nil {
		// A purely numeric "name" is the phone number leaking through.
		value = record.Sentinel
	}
	if value == res.Fields.Get(validate.FieldName) {
		return false
	}
	res.Fields[validate.FieldName] = value
	res.State.MarkRepaired(validate.FieldName)
	return true
}
