package obs

import (
	"context"

	"github.com/rs/zerolog"
)

// sessionKey is the context key storing the interactive session identifier.
type sessionKey struct{}

// WithSession stores the menu session identifier on the context.
func WithSession(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionFromContext extracts the session identifier from context if present.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionKey{}).(string); ok {
		return v
	}
	return ""
}

// Logger returns base enriched with the session identifier carried by ctx.
func Logger(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	if id := SessionFromContext(ctx); id != "" {
		return base.With().Str("session_id", id).Logger()
	}
	return base
}
