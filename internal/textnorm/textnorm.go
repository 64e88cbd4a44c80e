// Package textnorm folds Portuguese names to plain ASCII so that names coming
// from different upstreams can be compared and used in file names.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ASCII decomposes s (NFKD) and drops every non-ASCII rune, so "São Paulo"
// becomes "Sao Paulo".
func ASCII(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slug is ASCII with spaces replaced by underscores.
func Slug(s string) string {
	return strings.ReplaceAll(ASCII(s), " ", "_")
}

// Key is the comparison form used for joins: ASCII, trimmed, upper-cased,
// inner whitespace collapsed.
func Key(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(ASCII(s)), " "))
}
