package jurisdiction

import (
	"strings"
	"unicode/utf8"
)

// NameFromSlug converts a URL slug to a display name:
// "santa-monica" -> "Santa Monica".
func NameFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		first, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(first)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// SlugFromName converts a display name to its URL slug:
// "Santa Monica" -> "santa-monica".
func SlugFromName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
