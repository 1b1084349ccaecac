package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(jsonHandler(os.Stdout, slog.LevelInfo)))
}

// Setup installs the process logger. Developer environments get colored
// human-readable output; everything else emits one JSON object per line.
func Setup(w io.Writer, env, level string) *slog.Logger {
	lvl := ParseLevel(level, env)

	var h slog.Handler
	switch env {
	case "dev", "local":
		h = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05.000",
		})
	default:
		h = jsonHandler(w, lvl)
	}

	logger := slog.New(h)
	current.Store(logger)
	slog.SetDefault(logger)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(h, slog.LevelInfo).Writer())
	return logger
}

// ParseLevel maps a level name to a slog level. An empty name picks debug for
// developer environments and info elsewhere.
func ParseLevel(level, env string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if env == "dev" || env == "local" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// Debug writes a debug-level log line with the given fields.
func Debug(msg string, fields map[string]any) {
	write(slog.LevelDebug, msg, fields)
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write(slog.LevelInfo, msg, fields)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	write(slog.LevelWarn, msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write(slog.LevelError, msg, fields)
}

func write(level slog.Level, msg string, fields map[string]any) {
	logger := current.Load()
	ctx := context.Background()
	if !logger.Enabled(ctx, level) {
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

func jsonHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339))
			}
			return a
		},
	})
}
