package logger_adapter

import (
	"log/slog"
	"strings"
)

// ParseLogLevel maps STDOUT_LOG_LEVEL / FLUENTBIT_LEVEL values to slog levels.
// Unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
