package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadre-oss/pilot/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestLogger_SetLevelAffectsDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, new(slog.LevelVar), false)
	child := l.WithFields(map[string]interface{}{"agent": "pilot"})

	child.Debug("hidden")
	assert.Empty(t, buf.String())

	l.SetLevel("debug")
	child.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "agent=pilot")
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, new(slog.LevelVar), true)
	l.Info("turn answered", "outcome", OutcomeSuccess)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "turn answered", rec["msg"])
	assert.Equal(t, OutcomeSuccess, rec["outcome"])
}

func TestNewLoggerFromConfig_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pilot.log")
	l, err := NewLoggerFromConfig(config.LoggingConfig{Level: "warn", Format: "text", File: path}, false)
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept", "code", "UPSTREAM_UNAVAILABLE")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "dropped"))
	assert.Contains(t, string(data), "kept")
	assert.Contains(t, string(data), "code=UPSTREAM_UNAVAILABLE")
}

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	got, ok := RequestIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "req-123", got)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok)

	_, ok = RequestIDFromContext(context.Background())
	assert.False(t, ok)

	assert.NotEqual(t, NewRequestID(), NewRequestID())
}
