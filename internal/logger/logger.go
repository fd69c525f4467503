// Package logger provides structured logging and run metrics for ust-catalog.
//
// Log entries are written through zerolog, as JSON lines by default or in a
// human-readable console layout. Every entry carries a timestamp, a level, a
// message and optional structured fields.
//
// Metrics tracking includes counters (incrementing values), gauges (point-in-time
// values) and timings (duration measurements) with min/max/average aggregation.
//
// Example usage:
//
//	logger.Info("Page downloaded", logger.Fields{
//	    "subject": "COMP",
//	    "bytes":   48213,
//	})
//
//	logger.Error("Page fetch failed", logger.Fields{
//	    "subject": "MATH",
//	}, err)
//
//	logger.IncrCounter("fetch.downloaded")
//	logger.RecordTiming("extract.total", duration)
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Format selects the output layout
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

var zerologLevels = map[Level]zerolog.Level{
	LevelDebug: zerolog.DebugLevel,
	LevelInfo:  zerolog.InfoLevel,
	LevelWarn:  zerolog.WarnLevel,
	LevelError: zerolog.ErrorLevel,
}

// Logger provides structured logging
type Logger struct {
	minLevel Level
	zl       zerolog.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelInfo, os.Stderr)
)

// New creates a JSON logger with the specified minimum level and output.
// Messages below the minimum level are discarded.
func New(level Level, output io.Writer) *Logger {
	return NewWithFormat(level, FormatJSON, output)
}

// NewWithFormat creates a logger writing JSON lines or console text
func NewWithFormat(level Level, format Format, output io.Writer) *Logger {
	if format == FormatConsole {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}
	zl := zerolog.New(output).
		Level(toZerolog(level)).
		With().Timestamp().Logger()
	return &Logger{minLevel: level, zl: zl}
}

// ParseLevel converts a level name such as "info" or "WARN"
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l == "WARNING" {
		l = LevelWarn
	}
	if _, ok := zerologLevels[l]; !ok {
		return "", fmt.Errorf("invalid log level: %q", s)
	}
	return l, nil
}

// ParseFormat converts a format name ("json" or "console")
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatConsole:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid log format: %q (must be json or console)", s)
	}
}

func toZerolog(level Level) zerolog.Level {
	if zl, ok := zerologLevels[level]; ok {
		return zl
	}
	return zerolog.InfoLevel
}

// SetDefault sets the package-level logger used by Debug, Info, Warn and Error
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Default returns the package-level logger
func Default() *Logger {
	return getDefault()
}

func getDefault() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// log writes a structured log entry. Field keys are emitted in sorted order.
func (l *Logger) log(level Level, message string, fields Fields, err error) {
	if !l.shouldLog(level) {
		return
	}

	ev := l.zl.WithLevel(toZerolog(level))
	if ev == nil {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev = ev.Interface(k, fields[k])
	}

	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(message)
}

// shouldLog determines if a message should be logged based on level
func (l *Logger) shouldLog(level Level) bool {
	return toZerolog(level) >= toZerolog(l.minLevel)
}

// Debug logs a debug message with optional structured fields.
func (l *Logger) Debug(message string, fields Fields) {
	l.log(LevelDebug, message, fields, nil)
}

// Info logs an informational message with optional structured fields.
func (l *Logger) Info(message string, fields Fields) {
	l.log(LevelInfo, message, fields, nil)
}

// Warn logs a warning; the run continues.
func (l *Logger) Warn(message string, fields Fields) {
	l.log(LevelWarn, message, fields, nil)
}

// Error logs an error message with optional structured fields and an error object.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.log(LevelError, message, fields, err)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	getDefault().Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	getDefault().Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	getDefault().Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	getDefault().Error(message, fields, err)
}
