// Package log provides slog handlers.
package log

import (
	"context"
	"log/slog"

	"github.com/delegasi/delegation-manager/internal/middleware"
	"go.opentelemetry.io/otel/trace"
)

const (
	// KeyCorrelationID is the attribute key under which the correlation ID of an HTTP request is logged.
	KeyCorrelationID = "correlationId"
	// KeyTraceID is the attribute key under which the ID of the active trace is logged.
	KeyTraceID = "traceId"
)

// ContextHandler adds request scoped values of the [context.Context] to the [slog.Record]: the
// correlation ID set by [middleware.CorrelationID] and the trace ID of a sampled span. Logs written
// outside of a request carry neither.
type ContextHandler struct {
	slog.Handler
}

func New(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

func (rh *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return rh.Handler.Enabled(ctx, level)
}

func (rh *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := middleware.GetCorrelationID(ctx); ok {
		r.AddAttrs(slog.String(KeyCorrelationID, id))
	}

	if spanContext := trace.SpanContextFromContext(ctx); spanContext.IsSampled() {
		r.AddAttrs(slog.String(KeyTraceID, spanContext.TraceID().String()))
	}

	return rh.Handler.Handle(ctx, r)
}

func (rh *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return New(rh.Handler.WithAttrs(attrs))
}

func (rh *ContextHandler) WithGroup(name string) slog.Handler {
	return New(rh.Handler.WithGroup(name))
}
