package normalize

import (
	"regexp"
	"strings"

	"github.com/roboco-io/manustruct/internal/structure"
)

// gluePattern matches a heading (optional numbering plus a section keyword)
// immediately followed by a capitalized sentence, an artifact of source
// formats that drop the paragraph break after a heading.
var gluePattern = buildGluePattern()

func buildGluePattern() *regexp.Regexp {
	alts := make([]string, len(structure.SectionKeywords))
	for i, kw := range structure.SectionKeywords {
		alts[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(
		`^((?:\d+(?:\.\d+)*\.?\s+)?(?:` + strings.Join(alts, "|") + `))([A-Z].*)$`,
	)
}

// minSplitTailLen is the length below which a trailing fragment without
// terminal punctuation is not considered a real sentence.
const minSplitTailLen = 20

// splitGlued splits a "heading glued to first sentence" block into the
// heading portion and the body portion. Returns ok=false when the text does
// not match or the trailing portion does not look like a sentence.
func splitGlued(text string) (head, tail string, ok bool) {
	m := gluePattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	head = strings.TrimSpace(m[1])
	tail = strings.TrimSpace(m[2])
	if !looksLikeSentence(tail) {
		return "", "", false
	}
	return head, tail, true
}

// looksLikeSentence accepts fragments that either carry terminal punctuation
// or are long enough to be prose.
func looksLikeSentence(s string) bool {
	if len(s) >= minSplitTailLen {
		return true
	}
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}
