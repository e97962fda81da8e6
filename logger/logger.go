// Package logger provides the structured logger of the fxr services.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// L is the process logger. It is a discarding logger until Init is called.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

type contextKey string

const loggerKey contextKey = "logger"

// ParseLevel parses a log level name. Unknown names are reported and fall
// back to info.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Init installs a JSON logger writing to w at the given level as L and as
// the slog default. Call it once at startup, after loading the config.
func Init(w io.Writer, levelStr string) *slog.Logger {
	level, ok := ParseLevel(levelStr)
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}
	L = slog.New(slog.NewJSONHandler(w, opts))
	slog.SetDefault(L)
	if !ok {
		L.Warn("invalid log level, defaulting to info", "configuredLevel", levelStr)
	}
	return L
}

// InitStderr is Init on os.Stderr.
func InitStderr(levelStr string) *slog.Logger { return Init(os.Stderr, levelStr) }

// FromContext retrieves the logger of ctx, or L.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return L
}

// ToContext embeds a logger into ctx.
func ToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
