package util

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"go-blog-api/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

const maxFilenameRunes = 255

// SanitizeFilename reduces a client-supplied upload name to a safe base name.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if trimmed == "" {
		return "", apierror.Validation("filename cannot be empty", name)
	}

	builder := strings.Builder{}
	builder.Grow(len(trimmed))
	for _, char := range trimmed {
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}

	cleaned := strings.TrimSpace(invalidFilenameChars.ReplaceAllString(builder.String(), "_"))
	cleaned = strings.TrimLeft(cleaned, ".")
	if cleaned == "" {
		return "", apierror.Validation("filename is invalid after sanitization", name)
	}

	// Truncate by runes, keeping the extension.
	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		ext := []rune(filepath.Ext(cleaned))
		if len(ext) >= maxFilenameRunes {
			ext = nil
		}
		cleaned = string(runes[:maxFilenameRunes-len(ext)]) + string(ext)
	}

	return cleaned, nil
}

// isInvisibleUnicode reports zero-width and other format characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060', '\uFEFF':
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
