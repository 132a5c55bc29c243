// Package classify implements the third pipeline stage: a zone-aware state
// machine that converts heading candidacy and position into final block
// types, with deterministic precedence rules and a bounded fallback pass for
// blocks no deterministic rule reached.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// StageName identifies this stage in processing history.
const StageName = "classify"

// Zone is the coarse phase the state machine moves through in document order.
type Zone int

const (
	ZoneFrontMatter Zone = iota
	ZoneBody
	ZoneReferences
)

// Classifier is the content classification stage.
type Classifier struct {
	scoring config.Scoring
	logger  *zap.Logger
}

// New creates a Classifier.
func New(scoring config.Scoring, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{scoring: scoring, logger: logger.Named(StageName)}
}

// Name returns the stage identifier.
func (c *Classifier) Name() string { return StageName }

// Run performs the single forward zone pass followed by the fallback pass.
func (c *Classifier) Run(doc *ir.Document) error {
	zone := ZoneFrontMatter
	bodyType := ir.BlockTypeBody
	postReferences := false
	frontSeen := 0

	for _, b := range doc.Blocks {
		if b.Flag(ir.MetaIsHeader) || b.Flag(ir.MetaIsFooter) {
			continue
		}

		switch zone {
		case ZoneFrontMatter:
			if b.Flag(ir.MetaHeadingCandidate) {
				zone = ZoneBody
				zone, bodyType = c.classifyBodyBlock(b, bodyType, postReferences)
				continue
			}
			frontSeen++
			// Defensive bound: documents with no detected headings must not
			// swallow everything into front matter.
			if frontSeen > c.scoring.FrontMatterMaxBlocks ||
				len(b.Text) > c.scoring.FrontMatterMaxChars {
				zone = ZoneBody
				zone, bodyType = c.classifyBodyBlock(b, bodyType, postReferences)
				continue
			}
			c.classifyFrontMatter(b)

		case ZoneBody:
			zone, bodyType = c.classifyBodyBlock(b, bodyType, postReferences)

		case ZoneReferences:
			if b.Flag(ir.MetaHeadingCandidate) && b.Level == 1 && !isReferencesName(b) {
				// A trailing top-level section (typically an appendix) ends
				// the reference list.
				zone = ZoneBody
				postReferences = true
				zone, bodyType = c.classifyBodyBlock(b, bodyType, postReferences)
				continue
			}
			if b.Type == ir.BlockTypeUnknown {
				b.Classify(ir.BlockTypeReferenceEntry, 0.85, "references_zone")
			}
		}
	}

	c.fallbackPass(doc)
	return nil
}

// classifyBodyBlock applies the BODY-zone precedence rules to one block and
// returns the possibly-updated zone and running body subtype.
func (c *Classifier) classifyBodyBlock(b *ir.Block, bodyType ir.BlockType, postReferences bool) (Zone, ir.BlockType) {
	if b.Type != ir.BlockTypeUnknown {
		return ZoneBody, bodyType
	}

	// Captions win over every other BODY rule, including heading candidacy.
	if ct, ok := captionType(b.Text); ok {
		b.Classify(ct, 0.95, "caption_prefix")
		return ZoneBody, bodyType
	}

	if b.Flag(ir.MetaHeadingCandidate) {
		ht := headingSubtype(b, postReferences)
		b.Classify(ht, b.Confidence, b.Method)
		switch ht {
		case ir.BlockTypeReferencesHeading:
			return ZoneReferences, ir.BlockTypeBody
		case ir.BlockTypeAbstractHeading:
			return ZoneBody, ir.BlockTypeAbstractBody
		case ir.BlockTypeKeywordsHeading:
			return ZoneBody, ir.BlockTypeKeywordsBody
		default:
			return ZoneBody, ir.BlockTypeBody
		}
	}

	switch {
	case b.Flag(ir.MetaIsListItem):
		b.Classify(ir.BlockTypeListItem, 0.9, "list_flag")
	case b.Flag(ir.MetaIsFootnote):
		b.Classify(ir.BlockTypeFootnote, 0.9, "footnote_flag")
	case b.Flag(ir.MetaHasEquation):
		b.Classify(ir.BlockTypeEquation, 0.9, "equation_anchor")
	default:
		if !b.IsEmpty() {
			b.Classify(bodyType, 0.7, "zone_body")
		}
	}
	return ZoneBody, bodyType
}

// headingSubtype maps a heading candidate to its concrete subtype from the
// section name. After the reference list, front-of-paper subtypes are not
// reopened; any such heading becomes a plain heading at its level.
func headingSubtype(b *ir.Block, postReferences bool) ir.BlockType {
	name := sectionKey(b)
	if postReferences {
		return ir.HeadingForLevel(b.Level)
	}
	switch {
	case name == "abstract":
		return ir.BlockTypeAbstractHeading
	case name == "keywords" || name == "index terms":
		return ir.BlockTypeKeywordsHeading
	case name == "references" || name == "bibliography":
		return ir.BlockTypeReferencesHeading
	case strings.HasPrefix(name, "acknowledg"):
		return ir.BlockTypeAcknowledgements
	case name == "funding":
		return ir.BlockTypeFunding
	case strings.HasPrefix(name, "conflict"):
		return ir.BlockTypeConflict
	default:
		return ir.HeadingForLevel(b.Level)
	}
}

func isReferencesName(b *ir.Block) bool {
	name := sectionKey(b)
	return name == "references" || name == "bibliography"
}

// sectionKey returns the lowercased section name of a heading block, falling
// back to its own text when the detector assigned no name.
func sectionKey(b *ir.Block) string {
	name := b.SectionName
	if name == "" {
		name = b.Text
	}
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimRight(name, ":.")
}

// captionType recognizes figure and table captions by textual prefix.
func captionType(text string) (ir.BlockType, bool) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasPrefix(lower, "figure "), strings.HasPrefix(lower, "fig. "):
		return ir.BlockTypeFigureCaption, true
	case strings.HasPrefix(lower, "table "), strings.HasPrefix(lower, "tab. "):
		return ir.BlockTypeTableCaption, true
	}
	return ir.BlockTypeUnknown, false
}
