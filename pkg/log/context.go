// SPDX-License-Identifier: MIT

// Package log provides structured logging utilities shared by the HTTP support
// packages: a process-wide zerolog base logger and helpers that carry
// request-scoped values (the transaction id) through context.Context.
package log

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const transactionIDKey ctxKey = "transaction_id"

// ContextWithTransactionID stores the provided transaction ID in the context.
func ContextWithTransactionID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, transactionIDKey, id)
}

// TransactionIDFromContext extracts the transaction ID from context if present.
func TransactionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(transactionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithContext enriches the supplied logger with correlation fields from context.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	if ctx == nil {
		return logger
	}
	tid := TransactionIDFromContext(ctx)
	if tid == "" {
		return logger
	}
	return logger.With().Str(FieldTransactionID, tid).Logger()
}

// WithTraceContext returns the base logger enriched with the trace and span
// ids of the active span, if any, and the transaction id.
func WithTraceContext(ctx context.Context) zerolog.Logger {
	l := WithContext(ctx, logger())
	if ctx == nil {
		return l
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()).
		Logger()
}

// WithComponentFromContext returns a logger that is annotated with the component
// name and enriched with correlation fields from ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	l := FromContext(ctx)
	return l.With().Str(FieldComponent, component).Logger()
}

// FromContext returns the logger attached to ctx, or the base logger enriched
// with the context's correlation fields when none is attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		l := Base()
		return &l
	}
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		b := WithContext(ctx, Base())
		return &b
	}
	return l
}
