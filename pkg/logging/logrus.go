package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds configuration for a logrus-backed logger
type Config struct {
	// Path is the log file path; empty writes to Output
	Path string
	// Output is used when Path is empty (default os.Stderr)
	Output io.Writer
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
}

// LogrusLogger implements Logger on top of logrus
type LogrusLogger struct {
	entry *logrus.Entry
	file  *os.File
}

// NewLogrusLogger creates a logger writing to a file or an io.Writer
func NewLogrusLogger(config Config) (*LogrusLogger, error) {
	base := logrus.New()

	var file *os.File
	switch {
	case config.Path != "":
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		base.SetOutput(f)
	case config.Output != nil:
		base.SetOutput(config.Output)
	default:
		base.SetOutput(os.Stderr)
	}

	if config.Format == FormatJSON {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			DisableColors:    file != nil,
			DisableSorting:   false,
			QuoteEmptyFields: true,
		})
	}
	base.SetLevel(toLogrusLevel(config.Level))

	return &LogrusLogger{entry: logrus.NewEntry(base), file: file}, nil
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Debug(msg)
}

// Info logs an info message
func (l *LogrusLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Info(msg)
}

// Warn logs a warning message
func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.with(ctx, fields).Warn(msg)
}

// Error logs an error message
func (l *LogrusLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	entry := l.with(ctx, fields)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(msg)
}

// WithFields returns a logger with additional fields
func (l *LogrusLogger) WithFields(fields Fields) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
		file:  l.file,
	}
}

// Close closes the log file, if any
func (l *LogrusLogger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *LogrusLogger) with(ctx context.Context, fields Fields) *logrus.Entry {
	entry := l.entry
	if ctx != nil {
		entry = entry.WithContext(ctx)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	return entry
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
