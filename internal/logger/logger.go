// Package logger provides structured logging with file and console output.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog for structured logging.
type Logger struct {
	zerolog.Logger
}

// New builds a logger writing to stdout and, when logFile is set, to that file too.
func New(level string, logFile string) (*Logger, error) {
	return NewWithWriter(level, logFile, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"})
}

// NewWithWriter is New with the console output replaced. The CLI passes
// stderr so log lines stay out of command output.
func NewWithWriter(level string, logFile string, console io.Writer) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := []io.Writer{console}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(out...)).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return &Logger{zl}, nil
}

// Component returns a child logger tagged with component=name.
// A nil receiver falls back to the global logger.
func (l *Logger) Component(name string) *Logger {
	if l == nil {
		l = Get()
	}
	return &Logger{l.With().Str("component", name).Logger()}
}

// Global is the process-wide logger set by Init or Set.
var Global *Logger

// Init builds the global logger.
func Init(level string, logFile string) error {
	l, err := New(level, logFile)
	if err != nil {
		return err
	}
	Global = l
	return nil
}

// Set replaces the global logger.
func Set(l *Logger) {
	Global = l
}

// Get returns the global logger, or a no-op one before Init.
func Get() *Logger {
	if Global == nil {
		return &Logger{zerolog.Nop()}
	}
	return Global
}
