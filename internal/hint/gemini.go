package hint

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// GeminiProvider suggests block types via Gemini text generation.
type GeminiProvider struct {
	model  string
	apiKey string
}

// NewGeminiProvider creates a provider from configuration. The underlying
// client is created per request because its constructor requires a context.
func NewGeminiProvider(cfg config.Provider) *GeminiProvider {
	return &GeminiProvider{
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider identifier.
func (p *GeminiProvider) Name() string { return "gemini" }

// Validate checks if the provider is properly configured.
func (p *GeminiProvider) Validate() error {
	if strings.TrimSpace(p.apiKey) == "" {
		return fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(p.model) == "" {
		return fmt.Errorf("gemini model is required")
	}
	return nil
}

// Suggest sends the untyped blocks to the model and parses its suggestions.
func (p *GeminiProvider) Suggest(ctx context.Context, doc *ir.Document, opts SuggestOptions) ([]Suggestion, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(doc, opts.MaxBlocks)
	if err != nil {
		return nil, err
	}
	if prompt == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	return parseSuggestions(resp.Text())
}
