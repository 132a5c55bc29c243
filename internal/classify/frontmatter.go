package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/roboco-io/manustruct/internal/ir"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

// institutionKeywords mark a line as an affiliation rather than an author
// list. Matching is case-insensitive on word prefixes.
var institutionKeywords = []string{
	"university",
	"institute",
	"department",
	"college",
	"laboratory",
	"school of",
	"center for",
	"centre for",
	"academy",
	"faculty",
	"hospital",
	"research",
	"corporation",
	"inc.",
	"ltd.",
	"gmbh",
}

// classifyFrontMatter applies the author and affiliation rules, in order of
// decreasing reliability, to one front-matter block. Provider hints pre-empt
// the rules when present.
func (c *Classifier) classifyFrontMatter(b *ir.Block) {
	if b.Type != ir.BlockTypeUnknown || b.IsEmpty() {
		return
	}

	if suggested := b.MetaString(ir.MetaSuggestedType); suggested != "" {
		if bt, ok := hintedType(suggested); ok {
			conf, present := b.MetaFloat(ir.MetaNLPConfidence)
			if !present || conf < c.scoring.HintConfidenceFloor {
				conf = c.scoring.HintConfidenceFloor
			}
			b.Classify(bt, conf, "hint")
			return
		}
	}

	text := strings.TrimSpace(b.Text)
	hasInstitution := containsInstitutionKeyword(text)

	if emailPattern.MatchString(text) {
		if hasInstitution {
			b.Classify(ir.BlockTypeAffiliation, 0.9, "email")
		} else {
			b.Classify(ir.BlockTypeAuthor, 0.85, "email")
		}
		return
	}

	if hasInstitution {
		b.Classify(ir.BlockTypeAffiliation, 0.8, "institution_keyword")
		return
	}

	if n := capitalizedTokens(text); n >= 2 && n <= 6 && !containsDigit(text) {
		conf := 0.7
		if strings.Contains(text, ",") {
			conf += c.scoring.CommaBonus
		}
		b.Classify(ir.BlockTypeAuthor, conf, "capitalized_names")
		return
	}

	// Weak guess: comma-separated capitalized runs still look more like a
	// name list than prose.
	if strings.Contains(text, ",") && capitalizedRatio(text) > 0.5 {
		b.Classify(ir.BlockTypeAuthor, 0.45, "frontmatter_guess")
	}
}

// hintedType maps a provider-suggested type string onto the closed type set.
// Unknown strings are ignored rather than trusted.
func hintedType(s string) (ir.BlockType, bool) {
	bt := ir.BlockType(strings.ToLower(strings.TrimSpace(s)))
	switch bt {
	case ir.BlockTypeAuthor, ir.BlockTypeAffiliation, ir.BlockTypeAbstractBody,
		ir.BlockTypeKeywordsBody, ir.BlockTypeBody, ir.BlockTypeFootnote:
		return bt, true
	}
	return ir.BlockTypeUnknown, false
}

func containsInstitutionKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range institutionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func capitalizedTokens(text string) int {
	n := 0
	for _, w := range strings.Fields(text) {
		trimmed := strings.TrimLeft(w, "([\"'")
		if trimmed == "" {
			continue
		}
		if unicode.IsUpper([]rune(trimmed)[0]) {
			n++
		}
	}
	return n
}

func capitalizedRatio(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	return float64(capitalizedTokens(text)) / float64(len(words))
}

func containsDigit(text string) bool {
	for _, r := range text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
