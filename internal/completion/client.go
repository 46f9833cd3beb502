// Package completion wraps the hosted text-completion endpoint: provider
// clients, the fixed prompt templates, response post-processing, and the
// global pacing gate that keeps every worker inside the upstream rate limit.
package completion

import (
	"context"
	"fmt"
	"time"
)

// Client is the minimal surface a completion backend must provide.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Options carries the sampling configuration recognized by the completion
// endpoint. Zero values mean "backend default".
type Options struct {
	// Engine selects the (fine-tuned) backend model or deployment.
	Engine string
	// Temperature in [0,1].
	Temperature float64
	// MaxTokens caps the response length.
	MaxTokens int
	// TopP nucleus sampling parameter.
	TopP float64
	// FrequencyPenalty and PresencePenalty shape sampling.
	FrequencyPenalty float64
	PresencePenalty  float64
	// BestOf asks the server to rank this many candidates.
	BestOf int
	// Stop is the truncation marker appended by the fine-tuned models.
	Stop string
	// MinInterval is the minimum delay between any two calls, shared
	// globally across workers.
	MinInterval time.Duration
}

// DefaultOptions mirrors the settings the fine-tuned extraction models were
// trained against.
func DefaultOptions() Options {
	return Options{
		Temperature:      0.4,
		MaxTokens:        15,
		TopP:             0.25,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		BestOf:           2,
		Stop:             "%%",
		MinInterval:      50 * time.Millisecond,
	}
}

// CompletionError tags an endpoint failure with the record and field it was
// issued for. The caller decides whether to retry, skip the record, or abort.
type CompletionError struct {
	RecordID string
	Field    string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("completion for record %s field %s: %v", e.RecordID, e.Field, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }
