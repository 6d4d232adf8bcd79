package log

import (
	"bytes"
	"context"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floportop/floportop/internal/config"
)

func TestJSONLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")

	logger.Info("index build finished", "vectors", 15000)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "index build finished", entry["msg"])
	assert.Equal(t, float64(15000), entry["vectors"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "WARN")

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	assert.NotContains(t, buf.String(), "should be dropped")
	assert.Contains(t, buf.String(), "should be kept")
}

func TestConsoleHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "DEBUG")

	logger.Info("request completed", "status", 200, "path", "/api/v1/similar")

	out := buf.String()
	assert.Contains(t, out, "INF")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=")
	assert.Contains(t, out, "200")
	assert.Equal(t, 1, strings.Count(out, "\n"), "one record, one line")

	buf.Reset()
	logger.Debug("probe")
	assert.Contains(t, buf.String(), "DBG")

	buf.Reset()
	logger.Error("boom")
	assert.Contains(t, buf.String(), "ERR")
}

func TestConsoleHandlerQuotesStrings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatPretty, "INFO")

	logger.Info("check", "query", "space horror")

	assert.Contains(t, buf.String(), `"space horror"`, "values with spaces are quoted")
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))

	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, config.LogFormatJSON, "INFO")
	logger.InfoContext(ctx, "handled")
	assert.Contains(t, buf.String(), "req-123")
}
