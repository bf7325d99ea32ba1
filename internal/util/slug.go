package util

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, collapses every run of non-alphanumeric characters
// into a single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			pendingHyphen = false
			builder.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return builder.String()
}

// Capitalize returns s trimmed, with the first letter upper-cased and the rest
// lower-cased.
func Capitalize(s string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(s)))
	if len(runes) == 0 {
		return ""
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// NormalizeKey trims and lower-cases a username or email for comparison and storage.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
