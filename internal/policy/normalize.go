package policy

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// WordStart and WordEnd are Unicode-aware word edges for regexp patterns.
// RE2's \b only knows ASCII word characters, which would treat umlauts as
// boundaries.
const (
	WordStart = `(?:^|[^\p{L}\p{N}_])`
	WordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

// Normalize collapses whitespace, trims and lower-cases text. Input is
// NFC-composed first so decomposed umlauts match the pattern tables.
// Casers are stateful, so one is built per call.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	return cases.Lower(language.German).String(s)
}

func equalFold(a, b string) bool {
	return cases.Fold().String(norm.NFC.String(a)) == cases.Fold().String(norm.NFC.String(b))
}

func compile(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
