package obs

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ctxSpanKey struct{}

type ctxStartKey struct{}

// PGXTracer implements pgx.QueryTracer to create spans and debug logs for database interactions.
type PGXTracer struct {
	Logger *zerolog.Logger
}

// TraceQueryStart starts a span for the SQL statement.
func (t PGXTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	ctx, span := otel.Tracer("db.pgx").Start(ctx, "pgx.query")
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.statement", truncateSQL(data.SQL)),
	)
	if op := sqlOperation(data.SQL); op != "" {
		span.SetAttributes(attribute.String("db.operation", op))
	}
	if id := SessionFromContext(ctx); id != "" {
		span.SetAttributes(attribute.String("pos.session_id", id))
	}
	ctx = context.WithValue(ctx, ctxStartKey{}, time.Now())
	return context.WithValue(ctx, ctxSpanKey{}, span)
}

// TraceQueryEnd ends the span and records any error.
func (t PGXTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if span, ok := ctx.Value(ctxSpanKey{}).(trace.Span); ok {
		if data.Err != nil {
			span.RecordError(data.Err)
		}
		span.End()
	}
	if t.Logger == nil {
		return
	}
	logger := Logger(ctx, *t.Logger)
	evt := logger.Debug()
	if data.Err != nil {
		evt = logger.Warn().Err(data.Err)
	}
	if start, ok := ctx.Value(ctxStartKey{}).(time.Time); ok {
		evt = evt.Dur("duration", time.Since(start))
	}
	evt.Str("command", data.CommandTag.String()).Msg("pgx_query")
}

func sqlOperation(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}

func truncateSQL(sql string) string {
	trimmed := strings.TrimSpace(sql)
	if len(trimmed) > 300 {
		return trimmed[:300] + "..."
	}
	return trimmed
}
