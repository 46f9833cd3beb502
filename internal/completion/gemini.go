package completion

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiClient serves completions through the Gemini API for deployments
// without an OpenAI-compatible endpoint.
type GeminiClient struct {
	client *genai.Client
	opts   Options
}

// NewGeminiClient builds the Gemini backend. Options.Engine names the model.
func NewGeminiClient(ctx context.Context, apiKey string, opts Options) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: api key not configured")
	}
	if opts.Engine == "" {
		opts.Engine = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client, opts: opts}, nil
}

// Complete generates a single response for the prompt.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.opts.Temperature)),
	}
	if c.opts.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(c.opts.MaxTokens)
	}
	if c.opts.TopP > 0 {
		cfg.TopP = genai.Ptr(float32(c.opts.TopP))
	}
	if c.opts.Stop != "" {
		cfg.StopSequences = []string{c.opts.Stop}
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.opts.Engine,
		genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini completion: empty response")
	}
	return text, nil
}
