package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize reduces text to a canonical comparison form: NFKC, lowercase,
// punctuation and symbols removed, whitespace collapsed. The result may be
// empty when the input carries no word content (for example a line that is
// only a section divider such as "---").
func Normalize(text string) string {
	folded := norm.NFKC.String(text)
	var b strings.Builder
	b.Grow(len(folded))
	space := true
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			if !space {
				b.WriteRune(' ')
				space = true
			}
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// Dropped entirely. An apostrophe inside a word ("don't")
			// collapses to "dont" on both sides, so matching is unaffected.
		default:
			b.WriteRune(unicode.ToLower(r))
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits text into normalized word tokens.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// EqualNormalized reports whether two strings compare equal after Normalize.
func EqualNormalized(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
