package logger

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface on top of zap's sugared logger.
type ZapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(opts Options) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.TimeEncoderOfLayout(timestampFormat)

	var encoder zapcore.Encoder
	if isJSONFormat(opts.Format) {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(opts.Output), zapLevel(opts.Level))
	return &ZapLogger{sugar: zap.New(core).Sugar()}
}

func zapLevel(level string) zapcore.Level {
	switch getLogLevel(level).String() {
	case "debug":
		return zapcore.DebugLevel
	case "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debug logs a debug message
func (l *ZapLogger) Debug(args ...interface{}) { l.log(zapcore.DebugLevel, args) }

// Info logs an info message
func (l *ZapLogger) Info(args ...interface{}) { l.log(zapcore.InfoLevel, args) }

// Warn logs a warning message
func (l *ZapLogger) Warn(args ...interface{}) { l.log(zapcore.WarnLevel, args) }

// Error logs an error message
func (l *ZapLogger) Error(args ...interface{}) { l.log(zapcore.ErrorLevel, args) }

// Fatal logs a fatal message and exits
func (l *ZapLogger) Fatal(args ...interface{}) { l.log(zapcore.FatalLevel, args) }

// log emits zap.Field arguments as fields and the rest as the message.
func (l *ZapLogger) log(level zapcore.Level, args []interface{}) {
	rest, fields := splitFields(args)
	kv := make([]interface{}, len(fields))
	for i, f := range fields {
		kv[i] = f
	}
	msg := fmt.Sprint(rest...)
	switch level {
	case zapcore.DebugLevel:
		l.sugar.Debugw(msg, kv...)
	case zapcore.WarnLevel:
		l.sugar.Warnw(msg, kv...)
	case zapcore.ErrorLevel:
		l.sugar.Errorw(msg, kv...)
	case zapcore.FatalLevel:
		l.sugar.Fatalw(msg, kv...)
	default:
		l.sugar.Infow(msg, kv...)
	}
}

// Debugf logs a formatted debug message
func (l *ZapLogger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Infof logs a formatted info message
func (l *ZapLogger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warnf logs a formatted warning message
func (l *ZapLogger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Errorf logs a formatted error message
func (l *ZapLogger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Fatalf logs a formatted fatal message and exits
func (l *ZapLogger) Fatalf(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *ZapLogger) WithFields(fields map[string]interface{}) Logger {
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &ZapLogger{sugar: l.sugar.With(kv...)}
}

// WithContext adds the well-known context values to the logger
func (l *ZapLogger) WithContext(ctx context.Context) Logger {
	fields := contextFields(ctx)
	kv := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, zap.String(k, v))
	}
	return &ZapLogger{sugar: l.sugar.With(kv...)}
}

// WithComponent adds component name to the logger
func (l *ZapLogger) WithComponent(component string) Logger {
	return &ZapLogger{sugar: l.sugar.With(zap.String("component", component))}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() error {
	if err := l.sugar.Sync(); err != nil {
		return fmt.Errorf("sync zap logger: %w", err)
	}
	return nil
}
