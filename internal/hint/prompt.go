package hint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roboco-io/manustruct/internal/ir"
)

const systemPrompt = `You label blocks of text extracted from a scholarly manuscript.
For each input block, decide whether it is one of: author, affiliation,
abstract_body, keywords_body, footnote, body. Respond with a JSON array only,
no prose, where each element has this shape:
{"text": "<exact block text>", "type": "<label>", "confidence": <0.0-1.0>}
Copy the block text verbatim into "text". Omit blocks you are unsure about.`

type promptBlock struct {
	Text string `json:"text"`
}

// buildPrompt serializes the first untyped blocks of the document for the
// provider. Blocks the pipeline has already typed are never sent.
func buildPrompt(doc *ir.Document, maxBlocks int) (string, error) {
	if maxBlocks <= 0 {
		maxBlocks = DefaultSuggestOptions().MaxBlocks
	}

	blocks := make([]promptBlock, 0, maxBlocks)
	for _, b := range doc.Blocks {
		if b.Type != ir.BlockTypeUnknown || b.IsEmpty() {
			continue
		}
		blocks = append(blocks, promptBlock{Text: b.Text})
		if len(blocks) >= maxBlocks {
			break
		}
	}
	if len(blocks) == 0 {
		return "", nil
	}

	payload, err := json.MarshalIndent(blocks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize blocks: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\nBlocks:\n")
	sb.Write(payload)
	return sb.String(), nil
}

// parseSuggestions extracts the JSON array from a model response, tolerating
// surrounding prose and markdown code fences.
func parseSuggestions(raw string) ([]Suggestion, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON array in provider response")
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to parse provider response: %w", err)
	}
	return suggestions, nil
}
