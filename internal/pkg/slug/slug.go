// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make lowercases the name and replaces every character outside [a-z0-9-]
// with '-'. Diacritics are folded to their base letters first so that
// "Café Corp" becomes "cafe-corp" rather than "caf--corp".
func Make(name string) string {
	folded, _, err := transform.String(stripDiacritics, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Disambiguate appends a timestamp suffix for slugs that collide with an
// existing organization.
func Disambiguate(s string, now time.Time) string {
	return fmt.Sprintf("%s-%d", s, now.Unix())
}
