package structure

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/contract"
	"github.com/roboco-io/manustruct/internal/ir"
)

// StageName identifies this stage in processing history.
const StageName = "structure"

// Detector is the structure detection stage. It tags heading candidates,
// infers nesting levels, links each heading to its structural parent, and
// propagates section names to the blocks a section contains.
type Detector struct {
	scoring   config.Scoring
	contracts *contract.Table
	style     string
	logger    *zap.Logger
}

// New creates a Detector. The contract table may be nil, in which case
// section names pass through uncanonicalized.
func New(scoring config.Scoring, contracts *contract.Table, style string, logger *zap.Logger) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		scoring:   scoring,
		contracts: contracts,
		style:     style,
		logger:    logger.Named(StageName),
	}
}

// Name returns the stage identifier.
func (d *Detector) Name() string { return StageName }

type stackEntry struct {
	level int
	id    string
}

// Run evaluates the heading rules over every block in order, builds the
// heading hierarchy, and assigns inherited section names.
func (d *Detector) Run(doc *ir.Document) error {
	median := doc.MedianFontSize()
	titleSeen := false
	currentSection := ""
	var stack []stackEntry

	for i, b := range doc.Blocks {
		if b.Flag(ir.MetaIsHeader) || b.Flag(ir.MetaIsFooter) {
			continue
		}
		if b.IsEmpty() {
			// Anchored empties survive normalization; they still belong to
			// the enclosing section.
			if currentSection != "" {
				b.SectionName = currentSection
			}
			continue
		}

		if !titleSeen {
			titleSeen = true
			if d.isTitle(b.Text) {
				b.Classify(ir.BlockTypeTitle, 1.0, "title_rule")
				b.Level = 0
				d.logger.Debug("title detected", zap.String("id", b.ID), zap.String("text", b.Text))
				continue
			}
		}

		pos := PositionOf(doc, i)
		if _, rejected := RejectHeading(b.Text, d.scoring); !rejected {
			sig := Evaluate(b, median, pos, d.scoring)

			// Inside an abstract, style and fallback evidence alone cannot
			// open a new section; large-font abstract prose is not a heading.
			if sig.Score > 0 && !sig.Numbered && !sig.Keyworded && d.inBareAbstract(doc, i) {
				sig.Score = 0
			}

			if sig.Score >= d.scoring.HeadingThreshold {
				confidence := sig.Score + pos.Boost(d.scoring)
				b.SetFlag(ir.MetaHeadingCandidate, true)
				b.Level = sig.Level
				b.Confidence = clamp(confidence)
				b.Method = sig.Method()

				for len(stack) > 0 && stack[len(stack)-1].level >= sig.Level {
					stack = stack[:len(stack)-1]
				}
				if len(stack) > 0 {
					b.ParentID = stack[len(stack)-1].id
				}
				stack = append(stack, stackEntry{level: sig.Level, id: b.ID})

				name := StripNumbering(b.Text)
				canonical, rewritten := d.contracts.Lookup(d.style, name)
				if rewritten {
					d.logger.Debug("section name canonicalized",
						zap.String("raw", name), zap.String("canonical", canonical))
				}
				currentSection = canonical
				b.SectionName = canonical
				continue
			}
		}

		if currentSection != "" {
			b.SectionName = currentSection
		}
	}

	d.validateHierarchy(doc)
	return nil
}

// isTitle applies the title rule: first non-empty block, 5-200 characters,
// not a numbered heading.
func (d *Detector) isTitle(text string) bool {
	trimmed := strings.TrimSpace(text)
	n := len([]rune(trimmed))
	if n < d.scoring.TitleMinLen || n > d.scoring.TitleMaxLen {
		return false
	}
	_, numbered := MatchNumbering(trimmed)
	return !numbered
}

// inBareAbstract walks backward from position i to the nearest prior
// heading-like block and reports whether it was a bare "Abstract" keyword.
func (d *Detector) inBareAbstract(doc *ir.Document, i int) bool {
	for j := i - 1; j >= 0; j-- {
		prev := doc.Blocks[j]
		if prev.Type == ir.BlockTypeTitle {
			return false
		}
		if prev.Flag(ir.MetaHeadingCandidate) {
			name := strings.ToLower(StripNumbering(prev.Text))
			name = strings.TrimRight(name, ":.")
			return name == "abstract"
		}
	}
	return false
}

// validateHierarchy flags headings whose level exceeds the previous heading's
// level by more than one. A level jump is suspicious but never mutated.
func (d *Detector) validateHierarchy(doc *ir.Document) {
	prevLevel := -1
	for _, b := range doc.Blocks {
		if b.Type != ir.BlockTypeTitle && !b.Flag(ir.MetaHeadingCandidate) {
			continue
		}
		if prevLevel >= 0 && b.Level > prevLevel+1 {
			b.AddWarning(fmt.Sprintf("heading level jumps from %d to %d", prevLevel, b.Level))
			d.logger.Warn("heading level jump",
				zap.String("id", b.ID), zap.Int("from", prevLevel), zap.Int("to", b.Level))
		}
		prevLevel = b.Level
	}
}

func clamp(c float64) float64 {
	if c > 1 {
		return 1
	}
	if c < 0 {
		return 0
	}
	return c
}
