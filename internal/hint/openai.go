package hint

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// OpenAIProvider suggests block types via the OpenAI chat completions API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	apiKey string
}

// NewOpenAIProvider creates a provider from configuration.
func NewOpenAIProvider(cfg config.Provider) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		apiKey: cfg.APIKey,
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string { return "openai" }

// Validate checks if the provider is properly configured.
func (p *OpenAIProvider) Validate() error {
	if strings.TrimSpace(p.apiKey) == "" {
		return fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(p.model) == "" {
		return fmt.Errorf("openai model is required")
	}
	return nil
}

// Suggest sends the untyped blocks to the model and parses its suggestions.
func (p *OpenAIProvider) Suggest(ctx context.Context, doc *ir.Document, opts SuggestOptions) ([]Suggestion, error) {
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

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: float32(opts.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, nil
	}
	return parseSuggestions(resp.Choices[0].Message.Content)
}
