package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// StartSessionSpan creates a span for a session manager operation.
//
// Usage:
//
//	ctx, span := telemetry.StartSessionSpan(ctx, "restore")
//	defer span.End()
func StartSessionSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("session")
	ctx, span := tracer.Start(ctx, "session."+op)

	span.SetAttributes(
		attribute.String("operation", op),
		attribute.String("component", "session"),
	)

	return ctx, span
}

// StartAPISpan creates a client span for a backend call.
func StartAPISpan(ctx context.Context, method, path string) (context.Context, trace.Span) {
	tracer := GetTracerProvider().Tracer("api")
	ctx, span := tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))

	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.String("component", "api"),
	)

	return ctx, span
}

// End closes span, recording err when non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		RecordError(span, err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordError records an error in a span and sets error status.
// Coded errors add their code and kind as attributes.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, apperrors.UserMessage(err))

	if appErr, ok := apperrors.As(err); ok {
		span.SetAttributes(
			attribute.String("error.code", string(appErr.Code)),
			attribute.String("error.kind", appErr.Kind.String()),
		)
	}
}
