package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/azure"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClient talks to an OpenAI-compatible legacy Completions endpoint,
// including Azure OpenAI deployments of fine-tuned models.
type OpenAIClient struct {
	client openai.Client
	opts   Options
}

// OpenAIConfig configures the OpenAI backend.
type OpenAIConfig struct {
	APIKey string
	// BaseURL points at a non-Azure compatible endpoint. Ignored when
	// AzureEndpoint is set.
	BaseURL string
	// AzureEndpoint plus AzureAPIVersion select an Azure deployment; the
	// Options.Engine names the deployment.
	AzureEndpoint   string
	AzureAPIVersion string
}

// NewOpenAIClient builds the backend client.
func NewOpenAIClient(cfg OpenAIConfig, opts Options) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: api key not configured")
	}
	if opts.Engine == "" {
		return nil, fmt.Errorf("openai: engine/deployment not configured")
	}

	var reqOpts []option.RequestOption
	if cfg.AzureEndpoint != "" {
		version := cfg.AzureAPIVersion
		if version == "" {
			version = "2023-09-15-preview"
		}
		reqOpts = append(reqOpts,
			azure.WithEndpoint(strings.TrimSuffix(cfg.AzureEndpoint, "/"), version),
			azure.WithAPIKey(cfg.APIKey),
		)
	} else {
		reqOpts = append(reqOpts, option.WithAPIKey(cfg.APIKey))
		if cfg.BaseURL != "" {
			reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")))
		}
	}

	return &OpenAIClient{client: openai.NewClient(reqOpts...), opts: opts}, nil
}

// Complete issues a legacy completion request and returns the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	params := openai.CompletionNewParams{
		Model:  openai.CompletionNewParamsModel(c.opts.Engine),
		Prompt: openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
	}
	if c.opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.opts.MaxTokens))
	}
	params.Temperature = openai.Float(c.opts.Temperature)
	if c.opts.TopP > 0 {
		params.TopP = openai.Float(c.opts.TopP)
	}
	params.FrequencyPenalty = openai.Float(c.opts.FrequencyPenalty)
	params.PresencePenalty = openai.Float(c.opts.PresencePenalty)
	if c.opts.BestOf > 0 {
		params.BestOf = openai.Int(int64(c.opts.BestOf))
	}
	if c.opts.Stop != "" {
		params.Stop = openai.CompletionNewParamsStopUnion{OfString: openai.String(c.opts.Stop)}
	}

	resp, err := c.client.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	return resp.Choices[0].Text, nil
}
