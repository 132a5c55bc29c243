// Package normalize implements the first pipeline stage: Unicode and
// whitespace cleanup, repair of known parser corruption, splitting of merged
// heading+body artifacts, consolidation of wrapped headings, and suppression
// of exact duplicates and empty orphan blocks.
package normalize

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// StageName identifies this stage in processing history.
const StageName = "normalize"

// Normalizer is the text normalization stage.
type Normalizer struct {
	scoring config.Scoring
	logger  *zap.Logger
}

// New creates a Normalizer.
func New(scoring config.Scoring, logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{scoring: scoring, logger: logger.Named(StageName)}
}

// Name returns the stage identifier.
func (n *Normalizer) Name() string { return StageName }

// Run applies the normalization operations per block in a fixed order:
// clean, repair, split, consolidate, deduplicate, filter. It finishes by
// asserting the sparse-index contract; a violation there is a programming
// error, not a document condition.
func (n *Normalizer) Run(doc *ir.Document) error {
	for _, b := range doc.Blocks {
		b.Text = cleanText(b.Text)
		if repaired, ok := repairText(b.Text); ok {
			b.AddWarning(fmt.Sprintf("repaired swallowed heading letter: %q", b.Text))
			b.Text = repaired
		}
	}

	n.splitPass(doc)
	n.consolidatePass(doc)
	n.dedupePass(doc)
	n.filterPass(doc)

	if err := doc.CheckInvariants(); err != nil {
		return fmt.Errorf("normalize broke the sparse-index contract: %w", err)
	}
	return nil
}

// splitPass separates heading-glued-to-body blocks. The heading portion
// keeps the original id and index; the body portion gets a derived id and
// index+1, relying on the sparse-index gap left by the parser. Anchored
// blocks stay atomic so later caption matching can find them.
func (n *Normalizer) splitPass(doc *ir.Document) {
	out := make([]*ir.Block, 0, len(doc.Blocks))
	for i, b := range doc.Blocks {
		out = append(out, b)
		if b.HasAnchor() {
			continue
		}
		head, tail, ok := splitGlued(b.Text)
		if !ok {
			continue
		}
		if i+1 < len(doc.Blocks) && doc.Blocks[i+1].Index <= b.Index+1 {
			b.AddWarning("split skipped: no index gap before next block")
			continue
		}

		b.Text = head
		derived := ir.NewBlock(b.ID+"-split", b.Index+1, tail)
		derived.Style = b.Style
		out = append(out, derived)
		n.logger.Debug("split merged heading block",
			zap.String("id", b.ID), zap.String("heading", head))
	}
	doc.Blocks = out
}

// consolidatePass merges a heading wrapped across two source lines back into
// one block: both halves short and similarly styled, the first without
// terminal punctuation, the second starting upper-case.
func (n *Normalizer) consolidatePass(doc *ir.Document) {
	median := doc.MedianFontSize()
	out := make([]*ir.Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if n.shouldConsolidate(prev, b, median) {
				prev.Text = prev.Text + " " + b.Text
				prev.AddWarning(fmt.Sprintf("consolidated wrapped heading from block %s", b.ID))
				continue
			}
		}
		out = append(out, b)
	}
	doc.Blocks = out
}

func (n *Normalizer) shouldConsolidate(a, b *ir.Block, median float64) bool {
	if a.IsEmpty() || b.IsEmpty() || a.HasAnchor() || b.HasAnchor() {
		return false
	}
	short := n.scoring.FallbackMaxLen
	if len(a.Text) > short || len(b.Text) > short {
		return false
	}
	if hasTerminalPunctuation(a.Text) {
		return false
	}
	first, _ := firstRune(b.Text)
	if !unicode.IsUpper(first) {
		return false
	}
	bothBold := a.Style.Bold && b.Style.Bold
	bothLarge := median > 0 && a.Style.FontSize > median && b.Style.FontSize > median
	return bothBold || bothLarge
}

// dedupePass drops a block whose text, style, and metadata are identical to
// the immediately preceding surviving block. The kept block gains a warning.
func (n *Normalizer) dedupePass(doc *ir.Document) {
	out := make([]*ir.Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if len(out) > 0 {
			prev := out[len(out)-1]
			if b.Text == prev.Text && b.Style.Equal(prev.Style) &&
				reflect.DeepEqual(b.Metadata, prev.Metadata) {
				prev.AddWarning(fmt.Sprintf("dropped exact duplicate block %s", b.ID))
				continue
			}
		}
		out = append(out, b)
	}
	doc.Blocks = out
}

// filterPass removes whitespace-only orphan blocks. A block carrying an
// anchor flag or list membership is kept even when empty.
func (n *Normalizer) filterPass(doc *ir.Document) {
	out := make([]*ir.Block, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if b.IsEmpty() && !b.HasAnchor() {
			continue
		}
		out = append(out, b)
	}
	doc.Blocks = out
}

func hasTerminalPunctuation(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?") || strings.HasSuffix(s, ";") || strings.HasSuffix(s, ":")
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}
