// Package logger provides a structured logging wrapper around Go's slog package.
// It supports both JSON and text formatted output, multiple log levels
// (debug, info, warn, error), and flexible output destinations (stdout,
// stderr, or file paths).
//
// Example usage:
//
//	log, err := logger.New(logger.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	if err != nil {
//	    os.Exit(1)
//	}
//
//	log.Info("enforcement started", logger.Field{Key: "directory", Value: "/var/log/app"})
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config holds logger configuration.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, text
	Output string // stdout, stderr, or a file path
}

// Logger wraps slog.Logger.
type Logger struct {
	slog *slog.Logger
}

// Field is a key/value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// New creates a logger from the given configuration.
func New(cfg Config) (*Logger, error) {
	level, valid := parseLevel(cfg.Level)
	if !valid {
		return nil, fmt.Errorf("invalid log level: %s (expected: debug, info, warn, error)", cfg.Level)
	}

	var writer io.Writer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	default:
		// File path, with ~ expanded to the home directory
		filePath := cfg.Output
		if strings.HasPrefix(filePath, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			filePath = filepath.Join(homeDir, filePath[2:])
		}
		filePath = filepath.Clean(filePath)
		dir := filepath.Dir(filePath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
		file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
		}
		writer = file
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(writer, opts)
	case "text":
		handler = slog.NewTextHandler(writer, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s (expected: json, text)", cfg.Format)
	}

	return &Logger{
		slog: slog.New(handler),
	}, nil
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, fields ...Field) {
	l.slog.Debug(msg, l.fieldsToAny(fields...)...)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, fields ...Field) {
	l.slog.Info(msg, l.fieldsToAny(fields...)...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, fields ...Field) {
	l.slog.Warn(msg, l.fieldsToAny(fields...)...)
}

// Error logs a message at error level with an error value.
func (l *Logger) Error(msg string, err error, fields ...Field) {
	allFields := append([]Field{{Key: "error", Value: err}}, fields...)
	l.slog.Error(msg, l.fieldsToAny(allFields...)...)
}

// DebugCtx logs a message with a context at debug level.
func (l *Logger) DebugCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.DebugContext(ctx, msg, l.fieldsToAny(fields...)...)
}

// InfoCtx logs a message with a context at info level.
func (l *Logger) InfoCtx(ctx context.Context, msg string, fields ...Field) {
	l.slog.InfoContext(ctx, msg, l.fieldsToAny(fields...)...)
}

// fieldsToAny converts Fields to alternating key/value args for slog.
func (l *Logger) fieldsToAny(fields ...Field) []any {
	result := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		result = append(result, f.Key, f.Value)
	}
	return result
}

// With returns a new logger with the given fields attached.
func (l *Logger) With(fields ...Field) *Logger {
	return &Logger{
		slog: l.slog.With(l.fieldsToAny(fields...)...),
	}
}

// StdLogger returns the underlying slog.Logger.
func (l *Logger) StdLogger() *slog.Logger {
	return l.slog
}

// SetDefault installs this logger as the process-wide slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.slog)
}
