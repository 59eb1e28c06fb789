// Package logging provides file-based logging for den.
// Entries are written as slog text records to a size-rotated log file
// (~/.config/den/logs/den.log by default).
package logging

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the log file.
const (
	MaxSizeMB  = 5
	MaxBackups = 3
	MaxAgeDays = 30
)

// Logger owns the rotating log file behind an slog.Logger.
// Fields are ordered to minimize memory padding.
type Logger struct {
	logger *slog.Logger
	writer *lumberjack.Logger
}

// New creates a Logger writing records at or above level to path.
// If path is empty, logging is disabled (returns a no-op logger).
func New(path string, level slog.Level) *Logger {
	if path == "" {
		return Discard()
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
	}
	return &Logger{
		logger: newSlog(writer, level),
		writer: writer,
	}
}

// NewWithWriter creates a Logger writing to w.
// This is useful for testing.
func NewWithWriter(w io.Writer, level slog.Level) *Logger {
	return &Logger{logger: newSlog(w, level)}
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newSlog(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Slog returns the underlying slog.Logger.
func (l *Logger) Slog() *slog.Logger {
	return l.logger
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
