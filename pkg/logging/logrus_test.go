package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogrusLogger_File(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

	logger, err := NewLogrusLogger(Config{Path: logPath, Format: FormatText, Level: InfoLevel})
	require.NoError(t, err)

	logger.Info(context.Background(), "linked file", Fields{"path": "a.txt"})
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "linked file")
	assert.Contains(t, string(data), "path=a.txt")
}

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogrusLogger(Config{Output: &buf, Format: FormatText, Level: WarnLevel})
	require.NoError(t, err)

	ctx := context.Background()
	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", errors.New("boom"), nil)

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "boom")
}

func TestLogrusLogger_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogrusLogger(Config{Output: &buf, Format: FormatJSON, Level: DebugLevel})
	require.NoError(t, err)

	scoped := logger.WithFields(Fields{"operation_id": "op-1"})
	scoped.Debug(context.Background(), "copied file", Fields{"dest": "/b/a.txt"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "copied file", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "op-1", entry["operation_id"])
	assert.Equal(t, "/b/a.txt", entry["dest"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
	assert.Equal(t, "warn", WarnLevel.String())
}

func TestOrNull(t *testing.T) {
	assert.IsType(t, &NullLogger{}, OrNull(nil))

	var buf bytes.Buffer
	logger, err := NewLogrusLogger(Config{Output: &buf})
	require.NoError(t, err)
	assert.Same(t, logger, OrNull(logger))
}
