package helpers

import (
	"strings"
	"unicode"
)

// Slugify converts a title into a URL-safe slug: lowercase ASCII
// letters, digits, and single hyphens. Runs of anything else collapse
// into one hyphen; leading and trailing hyphens are trimmed.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
