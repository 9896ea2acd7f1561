package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticFold decomposes characters (NFKD) and strips combining marks, so
// "García" folds to "Garcia" instead of breaking at the accent.
var diacriticFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify converts input into a URL-safe slug: fold diacritics, lowercase,
// replace everything outside [a-z0-9-] with spaces, collapse whitespace runs
// to single hyphens and trim leading/trailing hyphens.
func Slugify(input string) string {
	folded, _, err := transform.String(diacriticFold, input)
	if err != nil {
		folded = input
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	slug := strings.Join(strings.Fields(b.String()), "-")
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}
