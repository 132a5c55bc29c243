package classify

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/ir"
)

// fallbackHeading matches common heading shapes that carry no numbering,
// keyword, or style evidence and therefore escaped the structure stage.
type fallbackHeading struct {
	pattern *regexp.Regexp
	level   int
}

var fallbackHeadings = []fallbackHeading{
	{regexp.MustCompile(`(?i)^appendix(\s+[A-Z0-9])?\b`), 1},
	{regexp.MustCompile(`(?i)^supplementary material`), 1},
	{regexp.MustCompile(`(?i)^about the authors?$`), 1},
}

// fallbackPass assigns a type to every block the zone pass left unknown. No
// retained block leaves the classifier untyped.
func (c *Classifier) fallbackPass(doc *ir.Document) {
	unresolved := 0
	for _, b := range doc.Blocks {
		if b.Type != ir.BlockTypeUnknown {
			continue
		}

		if b.HasAnchor() && b.IsEmpty() {
			switch {
			case b.Flag(ir.MetaHasEquation):
				b.Classify(ir.BlockTypeEquation, 0.9, "equation_anchor")
			case b.Flag(ir.MetaIsListItem):
				b.Classify(ir.BlockTypeListItem, 0.9, "list_flag")
			default:
				b.Classify(ir.BlockTypeBody, c.scoring.BodyBaseline, "fallback")
			}
			continue
		}

		text := strings.TrimSpace(b.Text)
		matched := false
		for _, fh := range fallbackHeadings {
			if fh.pattern.MatchString(text) {
				b.Classify(ir.HeadingForLevel(fh.level), c.scoring.HintConfidenceFloor, "fallback_pattern")
				b.Level = fh.level
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		conf := c.scoring.BodyBaseline
		method := "fallback"
		if suggested := b.MetaString(ir.MetaSuggestedType); suggested != "" {
			if bt, ok := hintedType(suggested); ok {
				hc, present := b.MetaFloat(ir.MetaNLPConfidence)
				if !present || hc < c.scoring.HintConfidenceFloor {
					hc = c.scoring.HintConfidenceFloor
				}
				b.Classify(bt, hc, "hint")
				continue
			}
		}
		b.Classify(ir.BlockTypeBody, conf, method)
		unresolved++
	}
	if unresolved > 0 {
		c.logger.Debug("fallback typed remaining blocks", zap.Int("count", unresolved))
	}
}
