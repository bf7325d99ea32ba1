package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Debug("hidden")
	log.Info("user logged in", "user_id", "u-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "user logged in", line["msg"])
	assert.Equal(t, "u-1", line["user_id"])
}

func TestPrettyHandler_WritesAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "pretty").With("request_id", "r-1").WithGroup("session")

	log.Warn("refresh rejected", "reason", "mismatch")

	out := buf.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "refresh rejected")
	assert.Contains(t, out, "request_id")
	assert.Contains(t, out, "session.reason")
	assert.Contains(t, out, "mismatch")
}
