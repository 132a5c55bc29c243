// Package hint provides the optional NLP provider interface and registry.
// Providers suggest semantic types for ambiguous blocks; the pipeline treats
// every suggestion as advisory metadata that deterministic rules may use or
// ignore.
package hint

import (
	"context"

	"github.com/roboco-io/manustruct/internal/ir"
)

// Provider is the interface that all hint providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// Suggest inspects a document and returns type suggestions for blocks
	// the provider recognizes.
	Suggest(ctx context.Context, doc *ir.Document, opts SuggestOptions) ([]Suggestion, error)

	// Validate checks if the provider is properly configured.
	Validate() error
}

// SuggestOptions contains options for a suggestion request.
type SuggestOptions struct {
	MaxBlocks   int     `json:"max_blocks,omitempty"`  // cap on blocks sent to the provider
	MaxTokens   int     `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64 `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
}

// Suggestion is one provider opinion about one block. Text carries the exact
// block text the suggestion refers to; applying a suggestion requires an
// exact text match so a stale or hallucinated hint can never attach to the
// wrong block.
type Suggestion struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// DefaultSuggestOptions returns the default suggestion options.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		MaxBlocks:   40,
		MaxTokens:   1024,
		Temperature: 0.0,
	}
}

// Annotate writes suggestions into block metadata. Only blocks that are still
// untyped and whose text exactly matches the suggestion are annotated; the
// classifier decides later whether the metadata wins over its own rules.
// Returns the number of blocks annotated.
func Annotate(doc *ir.Document, suggestions []Suggestion) int {
	byText := make(map[string]Suggestion, len(suggestions))
	for _, s := range suggestions {
		if s.Text == "" || s.Type == "" {
			continue
		}
		byText[s.Text] = s
	}

	applied := 0
	for _, b := range doc.Blocks {
		if b.Type != ir.BlockTypeUnknown {
			continue
		}
		s, ok := byText[b.Text]
		if !ok {
			continue
		}
		b.SetMeta(ir.MetaSuggestedType, s.Type)
		b.SetMeta(ir.MetaNLPConfidence, clampConfidence(s.Confidence))
		applied++
	}
	return applied
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
