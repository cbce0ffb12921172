package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process logger. Production emits JSON with RFC3339
// timestamps for log shipping; everything else gets the readable text handler.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	lvl := parseLevel(level)

	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	return slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		slog.Default().Warn("unknown log level, defaulting to info", slog.String("value", level))
		return slog.LevelInfo
	}
}
