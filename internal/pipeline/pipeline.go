// Package pipeline wires the full cleaning run: load the table, extract the
// batch, synthesize fields through the completion backend, validate, repair
// where the task supports it, and project the reviewed output file next to
// the input.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bulkclean/internal/completion"
	"bulkclean/internal/config"
	"bulkclean/internal/logging"
	"bulkclean/internal/project"
	"bulkclean/internal/record"
	"bulkclean/internal/repair"
	"bulkclean/internal/severity"
	"bulkclean/internal/synth"
	"bulkclean/internal/table"
	"bulkclean/internal/tags"
	"bulkclean/internal/validate"
)

// maxRawLength is the sanity ceiling on raw case text; longer inputs tend
// to overflow the completion window and come back truncated.
const maxRawLength = 512

// ClientFactory builds a completion backend for one task's options. Tests
// inject scripted clients through it.
type ClientFactory func(ctx context.Context, cfg *config.Config, opts completion.Options) (completion.Client, error)

// DefaultFactory dispatches on the configured provider.
func DefaultFactory(ctx context.Context, cfg *config.Config, opts completion.Options) (completion.Client, error) {
	switch cfg.LLM.Provider {
	case "azure":
		return completion.NewOpenAIClient(completion.OpenAIConfig{
			APIKey:          cfg.LLM.APIKey,
			AzureEndpoint:   cfg.LLM.AzureEndpoint,
			AzureAPIVersion: cfg.LLM.AzureAPIVersion,
		}, opts)
	case "openai":
		return completion.NewOpenAIClient(completion.OpenAIConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		}, opts)
	case "gemini":
		return completion.NewGeminiClient(ctx, cfg.LLM.APIKey, opts)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

// Pipeline runs cleaning tasks under one configuration. All tasks share one
// pacing gate, so back-to-back runs against the same endpoint stay inside
// the rate limit.
type Pipeline struct {
	cfg     *config.Config
	factory ClientFactory
	gate    *completion.Gate
	log     *zap.Logger
}

// New creates a pipeline. A nil factory uses the configured provider.
func New(cfg *config.Config, factory ClientFactory) *Pipeline {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Pipeline{
		cfg:     cfg,
		factory: factory,
		gate:    completion.NewGate(cfg.MinCallInterval(), cfg.Batch.Workers),
		log:     logging.Get(logging.CategoryBatch),
	}
}

func (p *Pipeline) adapter(ctx context.Context, task config.TaskConfig) (*completion.Adapter, error) {
	opts := p.cfg.CompletionOptions(task)
	client, err := p.factory(ctx, p.cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("completion backend: %w", err)
	}
	return completion.NewAdapter(client, p.gate, opts), nil
}

// RunContacts cleans a primary-contact file and returns the output path.
func (p *Pipeline) RunContacts(ctx context.Context, inputPath string) (string, error) {
	adapter, err := p.adapter(ctx, p.cfg.Contacts)
	if err != nil {
		return "", err
	}

	batch, err := p.load(inputPath, p.cfg.Contacts.PrimaryKey, p.cfg.Contacts.SourceColumns)
	if err != nil {
		return "", err
	}

	results, err := synth.New(adapter, p.cfg.Batch.Workers).
		Run(ctx, batch, synth.ContactFieldSpecs())
	if err != nil {
		return "", err
	}

	battery := validate.ContactBattery()
	battery.Register(validate.RawSanity{
		MaxLen:    maxRawLength,
		Forbidden: []string{"/"},
		Fields: []string{validate.FieldNumber, validate.FieldEmail,
			validate.FieldName, validate.FieldExtension},
	})
	p.validateAll(battery, results)

	repair.New(adapter, battery).Run(ctx, results)

	out, hl := project.Contacts(batch, results)
	return p.save(inputPath, project.ContactsSuffix, batch, out, hl, results)
}

// RunHours cleans an hours file and returns the output path. Hours have no
// repair stage: a bad schedule cannot be regex-extracted from free text, so
// rejected records revert to their raw note.
func (p *Pipeline) RunHours(ctx context.Context, inputPath string) (string, error) {
	adapter, err := p.adapter(ctx, p.cfg.Hours.TaskConfig)
	if err != nil {
		return "", err
	}

	batch, err := p.load(inputPath, p.cfg.Hours.PrimaryKey, p.cfg.Hours.SourceColumns)
	if err != nil {
		return "", err
	}

	results, err := synth.New(adapter, p.cfg.Batch.Workers).
		Run(ctx, batch, synth.HoursFieldSpecs())
	if err != nil {
		return "", err
	}

	ver := p.cfg.HoursVersion()
	battery := validate.HoursBattery(ver)
	battery.Register(validate.RawSanity{
		MaxLen: maxRawLength,
		Fields: []string{validate.FieldHours},
	})
	p.validateAll(battery, results)

	out, hl := project.Hours(batch, results, ver)
	return p.save(inputPath, project.HoursSuffix, batch, out, hl, results)
}

// RunTags tags a location file and returns the output path.
func (p *Pipeline) RunTags(ctx context.Context, inputPath string) (string, error) {
	adapter, err := p.adapter(ctx, config.TaskConfig{
		Engine:      p.cfg.Tags.Engine,
		Temperature: p.cfg.Contacts.Temperature,
		MaxTokens:   64,
		TopP:        p.cfg.Contacts.TopP,
		BestOf:      1,
	})
	if err != nil {
		return "", err
	}

	batch, err := p.load(inputPath, p.cfg.Tags.PrimaryKey, p.cfg.Tags.Columns)
	if err != nil {
		return "", err
	}

	results, err := synth.New(adapter, p.cfg.Batch.Workers).
		Run(ctx, batch, synth.TagFieldSpecs(p.cfg.Tags.Columns))
	if err != nil {
		return "", err
	}

	battery := tags.Battery()
	p.validateAll(battery, results)
	for i := range results {
		if !results[i].Failed() {
			tags.Verify(&results[i], tags.KeywordClassifier{})
		}
	}

	out, hl := project.Tags(batch, results,
		[]string{synth.FieldLanguages, synth.FieldFeatures})
	return p.save(inputPath, project.TagsSuffix, batch, out, hl, results)
}

func (p *Pipeline) load(inputPath, primaryKey string, sourceColumns []string) (*record.Batch, error) {
	tbl, err := table.Read(inputPath)
	if err != nil {
		return nil, err
	}
	batch, err := record.Extract(tbl, primaryKey, sourceColumns)
	if err != nil {
		return nil, err
	}
	p.log.Info("batch extracted",
		zap.String("run", batch.RunID),
		zap.String("input", inputPath),
		zap.Int("records", len(batch.Records)))
	return batch, nil
}

func (p *Pipeline) validateAll(battery *validate.Battery, results []synth.Result) {
	for i := range results {
		if results[i].Failed() {
			continue
		}
		battery.Run(results[i].Raw, results[i].Fields, results[i].State)
	}
}

func (p *Pipeline) save(inputPath, suffix string, batch *record.Batch, out *table.Table, hl *table.Highlights, results []synth.Result) (string, error) {
	outputPath := table.OutputPath(inputPath, suffix)
	if err := table.Write(outputPath, out, hl); err != nil {
		return "", err
	}

	var accepted, flagged, rejected int
	for _, res := range results {
		switch severity.Decide(res.State.Max()) {
		case severity.Reject:
			rejected++
		case severity.Flag:
			flagged++
		default:
			accepted++
		}
	}
	p.log.Info("run complete",
		zap.String("run", batch.RunID),
		zap.String("output", outputPath),
		zap.Int("accepted", accepted),
		zap.Int("flagged", flagged),
		zap.Int("rejected", rejected))
	return outputPath, nil
}
