package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: "info", Production: true, Output: buf})

	logger.Error("S3 upload error", slog.String("key", "uploads/a.pdf"), slog.Any("error", errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "S3 upload error", entry["msg"])
	assert.Equal(t, "uploads/a.pdf", entry["key"])
	assert.Equal(t, "boom", entry["error"])
	assert.NotEmpty(t, entry["ts"])
	assert.NotContains(t, entry, "time")
}

func TestNew_DevelopmentText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: "debug", Output: buf})

	logger.Debug("listing files", slog.String("prefix", "uploads/"))

	assert.Contains(t, buf.String(), "listing files")
	assert.Contains(t, buf.String(), "uploads/")
}

func TestNew_LevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Options{Level: "warn", Production: true, Output: buf})

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.NotEmpty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"":        slog.LevelInfo,
		"trace":   slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}
