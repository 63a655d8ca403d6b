package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID_And_RequestIDFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-12345")
	assert.Equal(t, "req-12345", RequestIDFromContext(ctx))
}

func TestFromContext_AttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithWriter(&buf, slog.LevelInfo)

	ctx := WithRequestID(context.Background(), "req-67890")
	FromContext(ctx, base).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "req-67890", line["request_id"])
	assert.Equal(t, "hello", line["msg"])
}

func TestNewWithWriter_UTCTimestamps(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, slog.LevelInfo).Info("tick")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	ts, err := time.Parse(time.RFC3339Nano, line["time"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Equal(t, 0, offset)
	assert.True(t, strings.HasSuffix(line["time"].(string), "Z"))
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, ParseLevel("warn"))
	l.Info("dropped")
	l.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webserver.log")
	l := New(Options{Level: "info", File: path, MaxSizeMB: 1, MaxBackups: 5})
	require.NotNil(t, l)
	l.Info("to file")

	assert.FileExists(t, path)
}
