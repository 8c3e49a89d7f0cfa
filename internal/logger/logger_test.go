package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ReturnsNoopWhenUninitialized(t *testing.T) {
	Global = nil
	l := Get()
	require.NotNil(t, l)
	// must not panic
	l.Info().Msg("dropped")
}

func TestNewWithWriter_WritesToConsoleAndFile(t *testing.T) {
	var buf bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := NewWithWriter("debug", logFile, &buf)
	require.NoError(t, err)

	l.Info().Str("component", "test").Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("nonsense", "", &buf)
	require.NoError(t, err)

	l.Debug().Msg("hidden")
	l.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestComponent_TagsChildLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewWithWriter("info", "", &buf)
	require.NoError(t, err)

	l.Component("store").Info().Msg("fetched")

	assert.Contains(t, buf.String(), `"component":"store"`)
}

func TestComponent_NilReceiverUsesGlobal(t *testing.T) {
	Global = nil
	var l *Logger
	// must not panic
	l.Component("x").Info().Msg("dropped")
}
