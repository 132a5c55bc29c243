// Package structure implements the second pipeline stage: heading detection,
// hierarchy construction, and section-name assignment.
//
// The rule engine in this file is stateless: every function scores a single
// block from its text, style, and the document-wide font median. The detector
// in detect.go drives these rules over the whole block sequence.
package structure

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

var (
	numberingPattern  = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)
	romanPattern      = regexp.MustCompile(`^[IVXLCDM]+\.\s+`)
	romanPatternLower = regexp.MustCompile(`^[ivxlcdm]+\.\s+`)

	multiSentence        = regexp.MustCompile(`[.!?]\s+[A-Z]`)
	captionStart         = regexp.MustCompile(`(?i)^(figure|fig\.|table|tab\.)\s*\d`)
	citationStart        = regexp.MustCompile(`^\[\d+\]`)
	citationlikeNumbered = regexp.MustCompile(`^\d+\.\s+.*(\(\d{4}\)|et al\.|pp\.\s*\d|vol\.\s*\d)`)
)

// pronounOpeners are narrative phrases that rule a block out as a heading no
// matter how it is styled.
var pronounOpeners = []string{
	"this paper",
	"this study",
	"this work",
	"this article",
	"this section",
	"we propose",
	"we present",
	"we introduce",
	"we describe",
	"we show",
	"in this paper",
	"it is",
	"here we",
}

// Signal is the outcome of scoring one block with the heading rules.
type Signal struct {
	Score     float64
	Level     int
	Methods   []string
	Numbered  bool
	Keyworded bool
	Keyword   string
}

// Method returns the audit tag for the combination of rules that fired.
func (s Signal) Method() string {
	if len(s.Methods) == 0 {
		return ""
	}
	return strings.Join(s.Methods, "+")
}

// MatchNumbering reports whether the text starts with a section numbering
// pattern and the nesting depth it implies ("1." is depth 1, "1.2.3" is
// depth 3, roman numerals are depth 1).
func MatchNumbering(text string) (depth int, ok bool) {
	if m := numberingPattern.FindString(text); m != "" {
		num := strings.TrimRight(strings.TrimSpace(m), ".")
		return strings.Count(num, ".") + 1, true
	}
	if romanPattern.MatchString(text) {
		return 1, true
	}
	return 0, false
}

// RejectHeading runs the hard guards. A rejected block is not a heading
// regardless of how the scoring rules would rate it.
func RejectHeading(text string, cfg config.Scoring) (reason string, rejected bool) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) > cfg.GuardMaxLen {
		return "too long", true
	}
	if captionStart.MatchString(trimmed) {
		return "caption marker", true
	}
	lower := strings.ToLower(trimmed)
	for _, opener := range pronounOpeners {
		if strings.HasPrefix(lower, opener) {
			return "narrative opener", true
		}
	}
	if citationStart.MatchString(trimmed) || citationlikeNumbered.MatchString(trimmed) {
		return "citation pattern", true
	}
	_, numbered := MatchNumbering(trimmed)
	if !numbered {
		if hasTerminalPunctuation(trimmed) {
			return "sentence punctuation", true
		}
		if multiSentence.MatchString(trimmed) {
			return "multiple sentences", true
		}
	}
	return "", false
}

// Evaluate combines the additive heading rules for a single block. The score
// is capped at 1.0. Positional boosts are applied separately by the caller;
// they never create a candidate on their own.
func Evaluate(b *ir.Block, median float64, pos Position, cfg config.Scoring) Signal {
	text := strings.TrimSpace(b.Text)
	var sig Signal

	if depth, ok := MatchNumbering(text); ok {
		sig.Score += cfg.NumberingWeight
		sig.Level = depth
		sig.Numbered = true
		sig.Methods = append(sig.Methods, "numbering")
	}

	if len(text) <= cfg.KeywordMaxLen {
		if kw, major, ok := MatchKeyword(text); ok {
			sig.Score += cfg.KeywordWeight
			sig.Keyworded = true
			sig.Keyword = kw
			if sig.Level == 0 {
				if major {
					sig.Level = 1
				} else {
					sig.Level = 2
				}
			}
			sig.Methods = append(sig.Methods, "keyword")
		}
	}

	if len(text) <= cfg.StyleMaxLen {
		if style := styleScore(text, b.Style, median, cfg); style != 0 {
			sig.Score += style
			sig.Methods = append(sig.Methods, "style")
		}
	}

	if sig.Score == 0 && fallbackApplies(text, pos, cfg) {
		sig.Score = cfg.FallbackConfidence
		sig.Methods = append(sig.Methods, "fallback")
	}

	if sig.Score > 1.0 {
		sig.Score = 1.0
	}
	if sig.Score < 0 {
		sig.Score = 0
	}
	if sig.Score > 0 && sig.Level == 0 {
		sig.Level = 2
		if pos.Ratio < 0.2 || stronglyStyled(b.Style, median, cfg) {
			sig.Level = 1
		}
	}
	return sig
}

// styleScore rates how much the block's styling stands out from the document
// baseline. Negative when the text ends like a sentence.
func styleScore(text string, style ir.Style, median float64, cfg config.Scoring) float64 {
	score := 0.0
	if median > 0 {
		if style.FontSize > median*cfg.LargeFontRatio {
			score += cfg.StyleLargeWeight
		} else if style.FontSize > median {
			score += cfg.StyleAboveWeight
		}
	}
	if style.Bold {
		score += cfg.BoldWeight
	}
	if isAllCaps(text) {
		score += cfg.AllCapsWeight
	}
	if hasTerminalPunctuation(text) {
		score -= cfg.PunctuationPenalty
	}
	return score
}

// fallbackApplies recognizes a short, isolated, title-cased line with no
// other heading signal.
func fallbackApplies(text string, pos Position, cfg config.Scoring) bool {
	if len(text) > cfg.FallbackMaxLen {
		return false
	}
	if !pos.Isolated {
		return false
	}
	return isTitleCase(text)
}

func stronglyStyled(style ir.Style, median float64, cfg config.Scoring) bool {
	return style.Bold && median > 0 && style.FontSize > median*cfg.LargeFontRatio
}

func hasTerminalPunctuation(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") ||
		strings.HasSuffix(s, "?") || strings.HasSuffix(s, ";")
}

// isAllCaps reports whether the text contains at least two letters and every
// letter is upper-case.
func isAllCaps(s string) bool {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// isTitleCase reports whether most words start with an upper-case letter.
// Short connector words are ignored.
func isTitleCase(s string) bool {
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	upper, counted := 0, 0
	for _, w := range words {
		r, _ := firstLetter(w)
		if r == 0 {
			continue
		}
		if len(w) <= 3 && unicode.IsLower(r) {
			continue // a, of, the, and
		}
		counted++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if counted == 0 {
		return false
	}
	return float64(upper)/float64(counted) > 0.6
}

func firstLetter(w string) (rune, bool) {
	for _, r := range w {
		if unicode.IsLetter(r) {
			return r, true
		}
		if unicode.IsDigit(r) {
			return 0, false
		}
	}
	return 0, false
}

// StripNumbering removes a leading numbering prefix from a heading text,
// yielding the bare section name.
func StripNumbering(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := numberingPattern.FindString(trimmed); m != "" {
		return strings.TrimSpace(trimmed[len(m):])
	}
	if m := romanPattern.FindString(trimmed); m != "" {
		return strings.TrimSpace(trimmed[len(m):])
	}
	return trimmed
}
