package logger_adapter

import (
	"fmt"
	"os"
	"strings"

	"korx-catalog/internal/core/port"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter - LoggerPort поверх zap, для JSON-логов в продакшене (STDOUT_LOG_FORMAT=json).
type ZapAdapter struct {
	logger *zap.Logger
}

// NewZapAdapter builds a production JSON logger writing to stdout.
func NewZapAdapter(level, serviceName string) (*ZapAdapter, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	base, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build zap logger: %w", err)
	}
	if serviceName != "" {
		base = base.With(zap.String("service_name", serviceName))
	}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		base = base.With(zap.String("hostname", hostname))
	}
	return &ZapAdapter{logger: base}, nil
}

// NewZapAdapterFromLogger wraps an existing zap logger.
func NewZapAdapterFromLogger(l *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: l}
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func toZapFields(fields port.Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func (a *ZapAdapter) Info(msg string, fields port.Fields) {
	a.logger.Info(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) Warn(msg string, fields port.Fields) {
	a.logger.Warn(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) Error(msg string, err error, fields port.Fields) {
	zf := toZapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	a.logger.Error(msg, zf...)
}

func (a *ZapAdapter) Debug(msg string, fields port.Fields) {
	a.logger.Debug(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) WithFields(fields port.Fields) port.LoggerPort {
	return &ZapAdapter{logger: a.logger.With(toZapFields(fields)...)}
}

// Sync сбрасывает буферы; вызывается при остановке приложения.
func (a *ZapAdapter) Sync() error {
	return a.logger.Sync()
}
