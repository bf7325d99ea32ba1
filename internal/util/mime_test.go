package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectMIME(t *testing.T) {
	t.Parallel()

	require.Equal(t, "image/png", DetectMIME([]byte("\x89PNG\r\n\x1a\n0000")))
	require.Equal(t, "image/jpeg", DetectMIME([]byte("\xff\xd8\xff\xe0")))
	require.Equal(t, "text/plain; charset=utf-8", DetectMIME([]byte("hello")))
}

func TestIsNormalizableImageMIME(t *testing.T) {
	t.Parallel()

	require.True(t, IsNormalizableImageMIME("image/jpeg"))
	require.True(t, IsNormalizableImageMIME(" IMAGE/WEBP "))
	require.True(t, IsNormalizableImageMIME("image/png; charset=binary"))
	require.False(t, IsNormalizableImageMIME("image/svg+xml"))
	require.False(t, IsNormalizableImageMIME("application/pdf"))
}

func TestIsImageExtension(t *testing.T) {
	t.Parallel()

	require.True(t, IsImageExtension(".png"))
	require.True(t, IsImageExtension(".jfif"))
	require.True(t, IsImageExtension(" .JPEG "))
	require.False(t, IsImageExtension(".pdf"))
	require.False(t, IsImageExtension(""))
	require.True(t, IsImageFilename("avatar.WEBP"))
	require.False(t, IsImageFilename("notes"))
}
