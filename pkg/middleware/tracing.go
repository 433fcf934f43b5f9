// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/magiavventure/go-common/pkg/log"
)

// Tracing starts a server span per request using the global tracer provider.
// When an outer instrumentation layer (otelhttp) already started a recording
// span, that span is annotated instead of nesting a second server span.
// The span is tagged with the transaction id so traces and audit lines can be
// joined; the id itself stays an opaque string.
func Tracing(tracerName string) func(http.Handler) http.Handler {
	tracer := otel.Tracer(tracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			span := trace.SpanFromContext(ctx)
			if !span.IsRecording() {
				ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))
				ctx, span = tracer.Start(ctx, r.Method+" "+r.URL.Path,
					trace.WithSpanKind(trace.SpanKindServer),
				)
				defer span.End()
			}

			span.SetAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			)
			if txID := log.TransactionIDFromContext(ctx); txID != "" {
				span.SetAttributes(attribute.String("transaction.id", txID))
			}

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			statusCode := statusOf(ww)
			span.SetAttributes(
				attribute.Int("http.response.status_code", statusCode),
				attribute.String("http.route", routePattern(r)),
			)
			if statusCode >= 500 {
				span.SetStatus(codes.Error, http.StatusText(statusCode))
			}
		})
	}
}
