package completion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"bulkclean/internal/logging"
)

// Template renders a prompt for one case text. Two shapes exist in the
// fine-tuned models' training data: the few-shot Input/Output form used by
// the extraction prompts, and the bare Q/A form the hours model expects.
type Template func(caseText string) string

// FewShot builds the Input/Output template around a preamble of instructions
// and examples.
func FewShot(preamble string) Template {
	return func(caseText string) string {
		return fmt.Sprintf("%s\nInput: %q\nOutput: ", strings.TrimSpace(preamble), caseText)
	}
}

// QA builds the bare question/answer template.
func QA() Template {
	return func(caseText string) string {
		return fmt.Sprintf("Q: %s\nA:", caseText)
	}
}

// Adapter applies a template, paces the call through the shared gate, and
// post-processes the response (stop-token truncation, echo stripping,
// whitespace trim).
type Adapter struct {
	client Client
	gate   *Gate
	opts   Options
	log    *zap.Logger
}

// NewAdapter wires a backend client behind the shared gate.
func NewAdapter(client Client, gate *Gate, opts Options) *Adapter {
	return &Adapter{
		client: client,
		gate:   gate,
		opts:   opts,
		log:    logging.Get(logging.CategoryAPI),
	}
}

// Options exposes the adapter's sampling configuration.
func (a *Adapter) Options() Options { return a.opts }

// Complete renders the template for caseText, issues the call, and returns
// the cleaned response. Failures come back as *CompletionError tagged with
// the record and field so the caller can apply its policy.
func (a *Adapter) Complete(ctx context.Context, tmpl Template, caseText, recordID, field string) (string, error) {
	prompt := tmpl(caseText)

	if err := a.gate.Acquire(ctx); err != nil {
		return "", &CompletionError{RecordID: recordID, Field: field, Err: err}
	}
	defer a.gate.Release()

	raw, err := a.client.Complete(ctx, prompt)
	if err != nil {
		a.log.Warn("completion failed",
			zap.String("record", recordID),
			zap.String("field", field),
			zap.Error(err))
		return "", &CompletionError{RecordID: recordID, Field: field, Err: err}
	}

	cleaned := Clean(raw, caseText, a.opts.Stop)
	a.log.Debug("completion",
		zap.String("record", recordID),
		zap.String("field", field),
		zap.String("response", cleaned))
	return cleaned, nil
}

// Clean truncates at the stop token when the endpoint did not, strips a
// leaked echo of the case text and the Q:/A: scaffold, and trims whitespace.
func Clean(raw, caseText, stop string) string {
	s := raw
	if stop != "" {
		if i := strings.Index(s, stop); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "Q:", "")
	s = strings.ReplaceAll(s, "A:", "")
	if caseText != "" {
		s = strings.ReplaceAll(s, caseText, "")
	}
	return strings.TrimSpace(s)
}
