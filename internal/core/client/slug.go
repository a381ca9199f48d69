package client

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// GenerateSlug lowercases name, strips accents and collapses every run of
// characters outside [a-z0-9] into a single dash.
func GenerateSlug(name string) string {
	lower := strings.ToLower(name)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, lower)
	if err != nil {
		plain = lower
	}

	var b strings.Builder
	dash := false
	for _, r := range plain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func ValidSlug(slug string) bool {
	return slug != "" && GenerateSlug(slug) == slug
}
