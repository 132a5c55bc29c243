package normalize

import (
	"regexp"

	"github.com/roboco-io/manustruct/internal/structure"
)

// swallowedRepair restores a heading keyword whose first letter was swallowed
// by a preceding digit, a known corruption of some source converters:
// "1ntroduction" came out of "1 Introduction".
type swallowedRepair struct {
	pattern *regexp.Regexp
	keyword string
}

var swallowedRepairs = buildSwallowedRepairs()

func buildSwallowedRepairs() []swallowedRepair {
	repairs := make([]swallowedRepair, 0, len(structure.SectionKeywords))
	for _, kw := range structure.SectionKeywords {
		if len(kw) < 4 {
			continue
		}
		truncated := kw[1:]
		re := regexp.MustCompile(`(?i)^(\d+(?:\.\d+)*\.?)(` + regexp.QuoteMeta(truncated) + `)\b`)
		repairs = append(repairs, swallowedRepair{pattern: re, keyword: kw})
	}
	return repairs
}

// repairText fixes the digit-swallowed-letter corruption for known section
// keywords. Text that does not match any known pattern is returned unchanged.
func repairText(text string) (string, bool) {
	for _, r := range swallowedRepairs {
		loc := r.pattern.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		digits := text[loc[2]:loc[3]]
		rest := text[loc[5]:]
		return digits + " " + r.keyword + rest, true
	}
	return text, false
}
