package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"firebase-mcp/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Constants for configuration
const (
	// Log levels
	logLevelDebug = "DEBUG"
	logLevelInfo  = "INFO"
	logLevelWarn  = "WARN"
	logLevelError = "ERROR"

	// Log formats
	logFormatJSON = "json"

	// Log backends
	BackendLogrus = "logrus"
	BackendZap    = "zap"

	// Environment types
	envProduction = "production"
	envProd       = "prod"

	// Timestamp format
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	textTimestamp   = "2006-01-02 15:04:05"
)

// Logger defines the interface for structured logging operations
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// Options selects the backend and rendering of a Logger. Zero values fall
// back to the LOG_* environment variables.
type Options struct {
	Backend string
	Level   string
	Format  string
	Output  io.Writer
}

// LogrusLogger implements the Logger interface using logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a new logger instance configured from the environment.
// Output goes to stderr: stdout carries the MCP stdio stream.
func NewLogger() Logger {
	return New(Options{})
}

// New builds a Logger for the requested backend.
func New(opts Options) Logger {
	if opts.Backend == "" {
		opts.Backend = os.Getenv("LOG_BACKEND")
	}
	if opts.Level == "" {
		opts.Level = os.Getenv("LOG_LEVEL")
	}
	if opts.Format == "" {
		opts.Format = os.Getenv("LOG_FORMAT")
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if strings.EqualFold(opts.Backend, BackendZap) {
		return newZapLogger(opts)
	}
	return newLogrusLogger(opts)
}

func newLogrusLogger(opts Options) *LogrusLogger {
	logger := logrus.New()
	logger.SetLevel(getLogLevel(opts.Level))
	logger.SetFormatter(getLogFormatter(opts.Format))
	logger.SetOutput(opts.Output)

	return &LogrusLogger{
		entry: logrus.NewEntry(logger),
	}
}

// NewNopLogger returns a logger that discards everything. Used by tests.
func NewNopLogger() Logger {
	return New(Options{Backend: BackendLogrus, Level: "error", Output: io.Discard})
}

// Debug logs a debug message
func (l *LogrusLogger) Debug(args ...interface{}) {
	entry, rest := l.withZapFields(args)
	entry.Debug(rest...)
}

// Info logs an info message
func (l *LogrusLogger) Info(args ...interface{}) {
	entry, rest := l.withZapFields(args)
	entry.Info(rest...)
}

// Warn logs a warning message
func (l *LogrusLogger) Warn(args ...interface{}) {
	entry, rest := l.withZapFields(args)
	entry.Warn(rest...)
}

// Error logs an error message
func (l *LogrusLogger) Error(args ...interface{}) {
	entry, rest := l.withZapFields(args)
	entry.Error(rest...)
}

// Fatal logs a fatal message and exits
func (l *LogrusLogger) Fatal(args ...interface{}) {
	entry, rest := l.withZapFields(args)
	entry.Fatal(rest...)
}

// Debugf logs a formatted debug message
func (l *LogrusLogger) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Infof logs a formatted info message
func (l *LogrusLogger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warnf logs a formatted warning message
func (l *LogrusLogger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Errorf logs a formatted error message
func (l *LogrusLogger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// Fatalf logs a formatted fatal message and exits
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

// withZapFields moves zap.Field arguments onto the entry as fields.
func (l *LogrusLogger) withZapFields(args []interface{}) (*logrus.Entry, []interface{}) {
	rest, fields := splitFields(args)
	if len(fields) == 0 {
		return l.entry, rest
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return l.entry.WithFields(logrus.Fields(enc.Fields)), rest
}

// WithFields adds structured fields to the logger
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{
		entry: l.entry.WithFields(logrus.Fields(fields)),
	}
}

// WithContext adds context information to the logger using proper context keys
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	for name, value := range contextFields(ctx) {
		fields[name] = value
	}
	return &LogrusLogger{
		entry: l.entry.WithFields(fields),
	}
}

// WithComponent adds component name to the logger
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{
		entry: l.entry.WithField("component", component),
	}
}

// splitFields separates zap.Field values from message arguments.
func splitFields(args []interface{}) ([]interface{}, []zap.Field) {
	var fields []zap.Field
	rest := args[:0:0]
	for _, arg := range args {
		if f, ok := arg.(zap.Field); ok {
			fields = append(fields, f)
			continue
		}
		rest = append(rest, arg)
	}
	return rest, fields
}

// contextFields extracts the well-known context values that are present.
func contextFields(ctx context.Context) map[string]string {
	fields := make(map[string]string)
	if ctx == nil {
		return fields
	}
	keys := []struct {
		key  interface{}
		name string
	}{
		{contextkeys.RequestIDKey, "request_id"},
		{contextkeys.ToolNameKey, "tool"},
		{contextkeys.ComponentKey, "component"},
		{contextkeys.OperationKey, "operation"},
		{contextkeys.SubjectKey, "subject"},
	}
	for _, k := range keys {
		if val, ok := ctx.Value(k.key).(string); ok && val != "" {
			fields[k.name] = val
		}
	}
	return fields
}

// Helper functions

func getLogLevel(level string) logrus.Level {
	switch level {
	case logLevelDebug, "debug":
		return logrus.DebugLevel
	case logLevelInfo, "info":
		return logrus.InfoLevel
	case logLevelWarn, "warn", "WARNING", "warning":
		return logrus.WarnLevel
	case logLevelError, "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func isJSONFormat(format string) bool {
	env := os.Getenv("ENVIRONMENT")
	return format == logFormatJSON || env == envProduction || env == envProd
}

func getLogFormatter(format string) logrus.Formatter {
	if isJSONFormat(format) {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}

	// Text formatter for development; no colors, stderr is often captured by the MCP host.
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: textTimestamp,
		DisableColors:   true,
	}
}

// Global logger instance
var defaultLogger Logger

func init() {
	defaultLogger = NewLogger()
}

// Package-level convenience functions

// Info logs an info message using the default logger
func Info(args ...interface{}) {
	defaultLogger.Info(args...)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	defaultLogger.Errorf(format, args...)
}

// WithComponent creates a logger with component information
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}
