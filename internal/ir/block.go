// Package ir defines the intermediate representation for manuscript documents.
// IR is produced by an external parser and enriched in place by the pipeline
// stages (Normalizer, Structure Detector, Classifier).
package ir

import "strings"

// BlockType represents the semantic type of a content block.
type BlockType string

const (
	BlockTypeUnknown           BlockType = "unknown"
	BlockTypeTitle             BlockType = "title"
	BlockTypeHeading1          BlockType = "heading_1"
	BlockTypeHeading2          BlockType = "heading_2"
	BlockTypeHeading3          BlockType = "heading_3"
	BlockTypeHeading4          BlockType = "heading_4"
	BlockTypeAbstractHeading   BlockType = "abstract_heading"
	BlockTypeAbstractBody      BlockType = "abstract_body"
	BlockTypeKeywordsHeading   BlockType = "keywords_heading"
	BlockTypeKeywordsBody      BlockType = "keywords_body"
	BlockTypeBody              BlockType = "body"
	BlockTypeListItem          BlockType = "list_item"
	BlockTypeFigureCaption     BlockType = "figure_caption"
	BlockTypeTableCaption      BlockType = "table_caption"
	BlockTypeReferencesHeading BlockType = "references_heading"
	BlockTypeReferenceEntry    BlockType = "reference_entry"
	BlockTypeAuthor            BlockType = "author"
	BlockTypeAffiliation       BlockType = "affiliation"
	BlockTypeFootnote          BlockType = "footnote"
	BlockTypeEquation          BlockType = "equation"
	BlockTypeAcknowledgements  BlockType = "acknowledgements_heading"
	BlockTypeFunding           BlockType = "funding_heading"
	BlockTypeConflict          BlockType = "conflict_heading"
)

// HeadingForLevel returns the heading block type for a nesting depth.
// Depths outside 1..4 are clamped.
func HeadingForLevel(level int) BlockType {
	switch {
	case level <= 1:
		return BlockTypeHeading1
	case level == 2:
		return BlockTypeHeading2
	case level == 3:
		return BlockTypeHeading3
	default:
		return BlockTypeHeading4
	}
}

// IsHeading reports whether the type is a title or any heading subtype.
func (bt BlockType) IsHeading() bool {
	switch bt {
	case BlockTypeTitle, BlockTypeHeading1, BlockTypeHeading2, BlockTypeHeading3,
		BlockTypeHeading4, BlockTypeAbstractHeading, BlockTypeKeywordsHeading,
		BlockTypeReferencesHeading, BlockTypeAcknowledgements, BlockTypeFunding,
		BlockTypeConflict:
		return true
	}
	return false
}

// Style is an immutable snapshot of the visual styling captured at parse time.
type Style struct {
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	FontSize  float64 `json:"font_size,omitempty"`
	FontName  string  `json:"font_name,omitempty"`
	Alignment string  `json:"alignment,omitempty"` // left, center, right, justify
}

// Equal reports whether two styles are identical.
func (s Style) Equal(o Style) bool {
	return s == o
}

// Recognized metadata keys. The metadata bag is open, but only these keys
// carry meaning for the pipeline.
const (
	// MetaIsHeader marks a page-header block; excluded from all section and
	// heading logic.
	MetaIsHeader = "is_header"
	// MetaIsFooter marks a page-footer block; excluded like MetaIsHeader.
	MetaIsFooter = "is_footer"
	// MetaIsFootnote marks a footnote block; classified directly as footnote.
	MetaIsFootnote = "is_footnote"
	// MetaIsListItem marks list membership; protects the block from removal
	// and classifies it as list_item.
	MetaIsListItem = "is_list_item"
	// MetaHasFigure marks a figure anchor; the block is exempt from splitting
	// and never removed.
	MetaHasFigure = "has_figure"
	// MetaHasEquation marks an equation anchor; same guarantees as MetaHasFigure.
	MetaHasEquation = "has_equation"
	// MetaBlankBefore / MetaBlankAfter record blank-line spacing around the
	// block in the source layout; consumed by the positional rules.
	MetaBlankBefore = "blank_before"
	MetaBlankAfter  = "blank_after"
	// MetaSuggestedType is an externally supplied, non-authoritative type
	// suggestion; consulted only when no deterministic rule fires.
	MetaSuggestedType = "suggested_type"
	// MetaNLPConfidence is the numeric confidence accompanying MetaSuggestedType.
	MetaNLPConfidence = "nlp_confidence"
	// MetaHeadingCandidate is set by the Structure Detector for blocks that
	// scored above the heading threshold.
	MetaHeadingCandidate = "heading_candidate"
)

// Block is the atomic unit flowing through all pipeline stages.
type Block struct {
	ID          string         `json:"id"`
	Index       int            `json:"index"`
	Text        string         `json:"text"`
	Style       Style          `json:"style"`
	Type        BlockType      `json:"block_type"`
	Level       int            `json:"level,omitempty"`
	ParentID    string         `json:"parent_id,omitempty"`
	SectionName string         `json:"section_name,omitempty"`
	Confidence  float64        `json:"confidence"`
	Method      string         `json:"method,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
}

// NewBlock creates a block with the given identity and text, starting untyped.
func NewBlock(id string, index int, text string) *Block {
	return &Block{
		ID:    id,
		Index: index,
		Text:  text,
		Type:  BlockTypeUnknown,
	}
}

// Flag reports whether the named metadata key is set to a true value.
func (b *Block) Flag(key string) bool {
	if b.Metadata == nil {
		return false
	}
	v, ok := b.Metadata[key].(bool)
	return ok && v
}

// SetFlag sets a boolean metadata key, allocating the bag on first use.
func (b *Block) SetFlag(key string, v bool) {
	if b.Metadata == nil {
		b.Metadata = make(map[string]any)
	}
	b.Metadata[key] = v
}

// MetaString returns a string metadata value, or "" when absent.
func (b *Block) MetaString(key string) string {
	if b.Metadata == nil {
		return ""
	}
	s, _ := b.Metadata[key].(string)
	return s
}

// MetaFloat returns a numeric metadata value and whether it was present.
// JSON decoding stores numbers as float64; ints set programmatically are
// accepted too.
func (b *Block) MetaFloat(key string) (float64, bool) {
	if b.Metadata == nil {
		return 0, false
	}
	switch v := b.Metadata[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// SetMeta stores an arbitrary metadata value.
func (b *Block) SetMeta(key string, v any) {
	if b.Metadata == nil {
		b.Metadata = make(map[string]any)
	}
	b.Metadata[key] = v
}

// AddWarning appends a human-readable notice to the block. Warnings
// accumulate and never cause removal.
func (b *Block) AddWarning(msg string) {
	b.Warnings = append(b.Warnings, msg)
}

// HasAnchor reports whether the block carries a figure or equation anchor,
// or list membership. Anchored blocks are never removed and never split.
func (b *Block) HasAnchor() bool {
	return b.Flag(MetaHasFigure) || b.Flag(MetaHasEquation) || b.Flag(MetaIsListItem)
}

// IsEmpty reports whether the block text is empty or whitespace-only.
func (b *Block) IsEmpty() bool {
	return strings.TrimSpace(b.Text) == ""
}

// Classify assigns the final type, confidence and the rule that produced it.
func (b *Block) Classify(bt BlockType, confidence float64, method string) {
	b.Type = bt
	b.Confidence = clampConfidence(confidence)
	b.Method = method
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	c := *b
	if b.Metadata != nil {
		c.Metadata = make(map[string]any, len(b.Metadata))
		for k, v := range b.Metadata {
			c.Metadata[k] = v
		}
	}
	if b.Warnings != nil {
		c.Warnings = append([]string(nil), b.Warnings...)
	}
	return &c
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
