// Package synth drives the model calls that turn each record's raw text
// into structured field values. Records are synthesized concurrently under
// a bounded worker pool; all calls share one pacing gate, so concurrency
// never multiplies the request rate.
package synth

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bulkclean/internal/completion"
	"bulkclean/internal/logging"
	"bulkclean/internal/record"
	"bulkclean/internal/severity"
	"bulkclean/internal/validate"
)

// FieldSpec binds one output field to the prompt that produces it.
type FieldSpec struct {
	Name     string
	Template completion.Template
	// Case renders the model input for a record; nil uses the raw text.
	Case func(r record.Record) string
}

// Result is one record's synthesized output plus its severity state. The
// state already reflects completion failures; validation escalates it
// further.
type Result struct {
	ID     string
	Raw    string
	Fields validate.Fields
	State  *severity.Record

	failed bool
}

// Failed reports whether synthesis could not produce values for this record.
// Failed results skip repair; their severity is final.
func (r Result) Failed() bool { return r.failed }

const failureMessage = "Completion unavailable, original text preserved."

// Synthesizer runs field prompts over a batch.
type Synthesizer struct {
	adapter *completion.Adapter
	workers int
	log     *zap.Logger
}

// New creates a synthesizer with the given worker pool size. workers < 1
// means 1.
func New(adapter *completion.Adapter, workers int) *Synthesizer {
	if workers < 1 {
		workers = 1
	}
	return &Synthesizer{
		adapter: adapter,
		workers: workers,
		log:     logging.Get(logging.CategoryBatch),
	}
}

// Run synthesizes every field of every record. Results keep batch order.
//
// Failure is isolated per record: when any field call for a record fails,
// that record's fields all collapse to NA at Error severity and its
// siblings continue. Only context cancellation aborts the whole run.
func (s *Synthesizer) Run(ctx context.Context, batch *record.Batch, specs []FieldSpec) ([]Result, error) {
	fieldNames := make([]string, len(specs))
	for i, spec := range specs {
		fieldNames[i] = spec.Name
	}

	results := make([]Result, len(batch.Records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, rec := range batch.Records {
		g.Go(func() error {
			results[i] = s.synthesizeRecord(ctx, rec, specs, fieldNames)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	s.log.Info("batch synthesized",
		zap.String("run", batch.RunID),
		zap.Int("records", len(results)),
		zap.Int("failed", failed))
	return results, nil
}

func (s *Synthesizer) synthesizeRecord(ctx context.Context, rec record.Record, specs []FieldSpec, fieldNames []string) Result {
	res := Result{
		ID:     rec.ID,
		Raw:    rec.Raw,
		Fields: make(validate.Fields, len(specs)),
		State:  severity.NewRecord(fieldNames...),
	}

	for _, spec := range specs {
		caseText := rec.Raw
		if spec.Case != nil {
			caseText = spec.Case(rec)
		}

		value, err := s.adapter.Complete(ctx, spec.Template, caseText, rec.ID, spec.Name)
		if err != nil {
			s.failRecord(&res, fieldNames)
			return res
		}
		if value == "" {
			value = record.Sentinel
		}
		res.Fields[spec.Name] = value
	}
	return res
}

// failRecord collapses every field to NA at Error severity. One failed call
// poisons the whole record: partial contact rows are worse for reviewers
// than a clearly rejected one.
func (s *Synthesizer) failRecord(res *Result, fieldNames []string) {
	res.failed = true
	for _, f := range fieldNames {
		res.Fields[f] = record.Sentinel
		res.State.Escalate(f, severity.Error, failureMessage)
	}
}
