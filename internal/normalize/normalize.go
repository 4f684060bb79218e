// Package normalize canonicalizes free text before it is compared.
package normalize

import (
	"strings"
	"unicode"
)

// Text lower-cases s, drops everything that is not a lowercase letter, digit or
// whitespace, collapses whitespace runs to a single space and trims the ends.
// Text(Text(s)) == Text(s).
func Text(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsSpace(r):
			space = b.Len() > 0
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if space {
				b.WriteByte(' ')
				space = false
			}
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Words splits an already normalized string into its words.
func Words(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}
