package middleware

import (
	"context"
	"log/slog"
	"net/http"
)

// LoggerContextKey stores the request-scoped logger.
const LoggerContextKey contextKey = "logger"

// WithRequestLogger seeds the context with a logger pre-tagged with request
// metadata. Must sit after RequestID and WithUser so both attributes are
// available.
func WithRequestLogger(baseLogger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			}
			if id := GetRequestID(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}
			if user := GetUserFromContext(r.Context()); user != nil {
				attrs = append(attrs, slog.Int64("user_id", user.ID))
			}

			ctx := context.WithValue(r.Context(), LoggerContextKey, baseLogger.With(attrs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLogger returns the request-scoped logger, the fallback when given, or
// slog.Default().
func GetLogger(ctx context.Context, fallback ...*slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*slog.Logger); ok {
		return logger
	}
	if len(fallback) > 0 && fallback[0] != nil {
		return fallback[0]
	}
	return slog.Default()
}
