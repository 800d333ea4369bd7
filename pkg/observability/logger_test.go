package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatText, Output: &buf, ServiceName: "strand"})

		logger.Info("plan generated", "cycle_length", 28)

		assert.Contains(t, buf.String(), "plan generated")
		assert.Contains(t, buf.String(), "cycle_length=28")
		assert.Contains(t, buf.String(), "service=strand")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelInfo, Format: LogFormatJSON, Output: &buf})

		logger.Info("streak recorded", "current", 3)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "streak recorded", entry["msg"])
		assert.EqualValues(t, 3, entry["current"])
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LogConfig{Level: LogLevelWarn, Output: &buf})

		logger.Info("hidden")
		logger.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestLogConfigFor(t *testing.T) {
	t.Setenv("STRAND_VERSION", "")

	dev := LogConfigFor("development", "", "", "")
	assert.Equal(t, LogFormatText, dev.Format)
	assert.Equal(t, LogLevelInfo, dev.Level)
	assert.Equal(t, "strand", dev.ServiceName)

	prod := LogConfigFor("production", "DEBUG", "", "strand-worker")
	assert.Equal(t, LogFormatJSON, prod.Format)
	assert.True(t, prod.AddSource)
	assert.Equal(t, LogLevelDebug, prod.Level)
	assert.Equal(t, "strand-worker", prod.ServiceName)

	override := LogConfigFor("production", "", "text", "")
	assert.Equal(t, LogFormatText, override.Format)
}

func TestParseSlogLevel(t *testing.T) {
	tests := map[LogLevel]slog.Level{
		LogLevelDebug: slog.LevelDebug,
		LogLevelInfo:  slog.LevelInfo,
		LogLevelWarn:  slog.LevelWarn,
		LogLevelError: slog.LevelError,
		"verbose":     slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseSlogLevel(in), in)
	}
}

func TestContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Format: LogFormatJSON, Output: &buf})

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithRequestID(ctx, "req-456")
	ctx = WithOperation(ctx, "routine.toggle")
	logger.InfoContext(ctx, "handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry[CorrelationIDKey])
	assert.Equal(t, "req-456", entry[RequestIDKey])
	assert.Equal(t, "routine.toggle", entry[OperationKey])
}

func TestLogOperationAndDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogOperation(logger, "plan.generate", "user_id", "u1").Info("start")
	LogDuration(logger, "plan.generate", time.Now().Add(-50*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "operation=plan.generate")
	assert.Contains(t, out, "user_id=u1")
	assert.Contains(t, out, "duration_ms")
}
