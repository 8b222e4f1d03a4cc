package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"DEBUG", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"warning", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"info", log.InfoLevel},
		{"", log.InfoLevel},
		{"verbose", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseLevel(tt.in))
		})
	}
}

// Not parallel: these tests swap the package logger.

func TestInit_WritesAtLevel(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "warn")
	defer Init(os.Stderr, "info")

	l.Info("hidden")
	LogError("visible %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible 42")
	assert.Same(t, l, Default())
}

func TestInitFileIn(t *testing.T) {
	dir := t.TempDir()
	_, err := InitFileIn(dir, "info")
	require.NoError(t, err)
	defer func() {
		Close()
		Init(os.Stderr, "info")
	}()

	LogInfo("room %s created", "R1")

	path := filepath.Join(dir, "debug.log")
	assert.Equal(t, path, GetLogPath())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "logger initialized")
	assert.Contains(t, string(data), "room R1 created")
}

func TestClose_FallsBackToStderr(t *testing.T) {
	var stderr bytes.Buffer
	saved := fallback
	fallback = &stderr
	defer func() {
		fallback = saved
		Init(os.Stderr, "info")
	}()

	dir := t.TempDir()
	_, err := InitFileIn(dir, "warn")
	require.NoError(t, err)
	Close()

	Default().Error("command failed", "err", "boom")
	Default().Info("hidden")

	assert.Contains(t, stderr.String(), "boom")
	assert.NotContains(t, stderr.String(), "hidden")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "boom")
}

func TestClose_WithoutFileKeepsLogger(t *testing.T) {
	var buf bytes.Buffer
	l := Init(&buf, "info")
	defer Init(os.Stderr, "info")

	Close()
	assert.Same(t, l, Default())
}
