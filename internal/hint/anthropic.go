package hint

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// AnthropicProvider suggests block types via the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
	apiKey string
}

// NewAnthropicProvider creates a provider from configuration.
func NewAnthropicProvider(cfg config.Provider) *AnthropicProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// Validate checks if the provider is properly configured.
func (p *AnthropicProvider) Validate() error {
	if strings.TrimSpace(p.apiKey) == "" {
		return fmt.Errorf("anthropic api key is required")
	}
	if strings.TrimSpace(p.model) == "" {
		return fmt.Errorf("anthropic model is required")
	}
	return nil
}

// Suggest sends the untyped blocks to the model and parses its suggestions.
func (p *AnthropicProvider) Suggest(ctx context.Context, doc *ir.Document, opts SuggestOptions) ([]Suggestion, error) {
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

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultSuggestOptions().MaxTokens
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return parseSuggestions(sb.String())
}
