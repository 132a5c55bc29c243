package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctReplacer maps typographic characters to their ASCII equivalents.
// Deliberately small: ambiguous input is left unchanged.
var punctReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // single low quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // double low quote
	"–", "-", // en dash
	"—", "--", // em dash
	" ", " ", // non-breaking space
	" ", " ", // narrow non-breaking space
	" ", " ", // thin space
)

var (
	multiSpace   = regexp.MustCompile(`[ \t]{2,}`)
	multiNewline = regexp.MustCompile(`\n{3,}`)
)

// cleanText applies Unicode normalization and whitespace collapsing.
// Running it on already-clean text changes nothing.
func cleanText(text string) string {
	if text == "" {
		return text
	}
	out := norm.NFC.String(text)
	out = punctReplacer.Replace(out)
	out = multiSpace.ReplaceAllString(out, " ")
	out = multiNewline.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
