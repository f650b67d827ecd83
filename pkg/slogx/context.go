package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext stores logger as the request logger of ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or slog.Default() when the context
// never passed through the HTTP middleware (tests, startup code).
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// WithRequestID tags the context's logger with the request id and stores the
// tagged logger back, so every line logged downstream correlates to the
// request.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return WithContext(ctx, FromContext(ctx).With("req_id", reqID))
}
