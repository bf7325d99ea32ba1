package util

import (
	"net/http"
	"path/filepath"
	"strings"
)

// DetectMIME sniffs the content type from the first bytes of data.
func DetectMIME(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}

// IsNormalizableImageMIME reports whether the image decoder set can handle mimeType.
func IsNormalizableImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.Index(cleaned, ";"); idx >= 0 {
		cleaned = strings.TrimSpace(cleaned[:idx])
	}

	switch cleaned {
	case "image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp", "image/tiff":
		return true
	default:
		return false
	}
}

func IsImageExtension(extension string) bool {
	switch strings.ToLower(strings.TrimSpace(extension)) {
	case ".png", ".jpg", ".jpeg", ".jpe", ".jfif", ".gif", ".webp", ".bmp", ".dib", ".tiff", ".tif":
		return true
	default:
		return false
	}
}

// IsImageFilename reports whether name carries an image extension.
func IsImageFilename(name string) bool {
	return IsImageExtension(filepath.Ext(name))
}
