package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercap-metrics/internal/logging"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesJSONWithRunID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.MustNew("info", logging.WithWriter(&buf)).WithRunID("run-1")

	logger.Info("csv written", "device_id", "chirop-5", "records", 3)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "csv written", entries[0]["msg"])
	assert.Equal(t, "run-1", entries[0]["run_id"])
	assert.Equal(t, "chirop-5", entries[0]["device_id"])
	assert.EqualValues(t, 3, entries[0]["records"])
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logging.MustNew("warn", logging.WithWriter(&buf))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")
	logger.Error("shown too")

	assert.Len(t, decodeLines(t, &buf), 2)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logging.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logging.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logging.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logging.ParseLevel("verbose"))
}

func TestNilLoggerIsSafe(t *testing.T) {
	t.Parallel()

	var logger *logging.Logger

	assert.NotPanics(t, func() {
		logger.Info("ignored")
		logger.WithRunID("x").Warn("ignored")
	})
}

func TestAttachError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []any{"path", "a"}, logging.AttachError(nil, "path", "a"))
	assert.Equal(t, []any{"path", "a", "error", "boom"}, logging.AttachError(errors.New("boom"), "path", "a"))
}
