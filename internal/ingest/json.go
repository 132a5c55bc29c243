package ingest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/roboco-io/manustruct/internal/ir"
)

// jsonEnvelope is the wrapped form of a block stream. Parsers that emit
// document metadata use it; a bare JSON array of blocks is also accepted.
type jsonEnvelope struct {
	Metadata ir.Metadata `json:"metadata"`
	Blocks   []RawBlock  `json:"blocks"`
}

// ReadJSON decodes a block stream from JSON. Both a bare array of blocks and
// an envelope with a "blocks" field are supported.
func ReadJSON(r io.Reader) (*ir.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var raws []RawBlock
	var meta ir.Metadata

	if err := json.Unmarshal(data, &raws); err != nil {
		var env jsonEnvelope
		if envErr := json.Unmarshal(data, &env); envErr != nil {
			return nil, fmt.Errorf("input is neither a block array nor a document envelope: %w", envErr)
		}
		raws = env.Blocks
		meta = env.Metadata
	}

	if len(raws) == 0 {
		return nil, fmt.Errorf("input contains no blocks")
	}

	doc, err := toDocument(raws)
	if err != nil {
		return nil, err
	}
	doc.Metadata = meta
	return doc, nil
}
