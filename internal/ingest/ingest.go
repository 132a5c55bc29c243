// Package ingest reads block streams from upstream parsers into IR documents.
// It accepts pre-parsed JSON block streams, plain text, and a remote parse
// service; binary manuscript formats are the upstream parser's problem.
package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roboco-io/manustruct/internal/ir"
)

// Format represents an input format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatText
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// DetectFormat detects the input format from the file path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".txt", ".text", ".md":
		return FormatText
	default:
		return FormatUnknown
	}
}

// RawBlock is one block as delivered by an upstream parser. Identifier and
// index are optional; missing values are assigned during validation.
type RawBlock struct {
	ID       string         `json:"id,omitempty"`
	Index    int            `json:"index,omitempty"`
	Text     string         `json:"text"`
	Style    ir.Style       `json:"style,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// indexStep is the gap left between consecutive block indices so derived
// blocks can be inserted without renumbering.
const indexStep = 100

// toDocument validates a raw block stream and converts it into a document.
// Missing ids and indices are assigned; explicitly non-increasing indices and
// duplicate ids are input errors.
func toDocument(raws []RawBlock) (*ir.Document, error) {
	doc := ir.NewDocument()
	seen := make(map[string]struct{}, len(raws))
	prevIndex := 0

	for i, raw := range raws {
		id := raw.ID
		if id == "" {
			id = fmt.Sprintf("b%d", i+1)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate block id in input: %s", id)
		}
		seen[id] = struct{}{}

		index := raw.Index
		if index == 0 {
			index = prevIndex + indexStep
		}
		if index <= prevIndex {
			return nil, fmt.Errorf("block %s: index %d is not greater than previous index %d", id, index, prevIndex)
		}
		prevIndex = index

		b := ir.NewBlock(id, index, raw.Text)
		b.Style = raw.Style
		for k, v := range raw.Metadata {
			b.SetMeta(k, v)
		}
		doc.AddBlock(b)
	}

	if err := doc.CheckInvariants(); err != nil {
		return nil, err
	}
	return doc, nil
}
