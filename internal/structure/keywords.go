package structure

import "strings"

// SectionKeywords is the closed vocabulary of section names recognized by the
// heading rules. Major sections map to heading level 1.
var SectionKeywords = []string{
	"Abstract",
	"Introduction",
	"Background",
	"Related Work",
	"Literature Review",
	"Methods",
	"Methodology",
	"Materials and Methods",
	"Experimental Setup",
	"Experiments",
	"Results",
	"Findings",
	"Discussion",
	"Evaluation",
	"Conclusion",
	"Conclusions",
	"Concluding Remarks",
	"Future Work",
	"References",
	"Bibliography",
	"Acknowledgments",
	"Acknowledgements",
	"Acknowledgment",
	"Keywords",
	"Appendix",
	"Funding",
	"Conflict of Interest",
	"Conflicts of Interest",
	"Supplementary Material",
	"Limitations",
}

// majorSections are keywords that, matched on their own, imply heading level 1.
var majorSections = map[string]bool{
	"abstract":     true,
	"introduction": true,
	"background":   true,
	"methods":      true,
	"methodology":  true,
	"results":      true,
	"discussion":   true,
	"evaluation":   true,
	"conclusion":   true,
	"conclusions":  true,
	"references":   true,
	"bibliography": true,
	"appendix":     true,
	"keywords":     true,
}

// MatchKeyword reports whether the text is (or starts as) one of the section
// keywords, and whether that keyword names a major level-1 section. The
// caller is responsible for the length gate; this match is purely lexical.
func MatchKeyword(text string) (keyword string, major bool, ok bool) {
	trimmed := strings.ToLower(strings.TrimSpace(text))
	trimmed = strings.TrimRight(trimmed, ":.")
	trimmed = stripNumberingLower(trimmed)
	for _, kw := range SectionKeywords {
		if trimmed == strings.ToLower(kw) {
			return kw, majorSections[strings.ToLower(kw)], true
		}
	}
	return "", false, false
}

// stripNumberingLower removes a leading numbering prefix ("1", "1.2.3",
// "IV.") from already-lowercased text.
func stripNumberingLower(s string) string {
	if m := numberingPattern.FindString(s); m != "" {
		return strings.TrimSpace(s[len(m):])
	}
	if m := romanPatternLower.FindString(s); m != "" {
		return strings.TrimSpace(s[len(m):])
	}
	return s
}
