// SPDX-License-Identifier: MIT

package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/magiavventure/go-common/pkg/apperr"
	"github.com/magiavventure/go-common/pkg/catalog"
	"github.com/magiavventure/go-common/pkg/log"
	"github.com/magiavventure/go-common/pkg/responder"
)

func newTestRouter(cfg StackConfig) *chi.Mux {
	if cfg.Responder == nil {
		cfg.Responder = responder.New(catalog.Build(catalog.Defaults()))
	}
	r := NewRouter(cfg)
	r.Get("/categories/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			cfg.Responder.Write(w, r, apperr.New("category-not-found", "missing"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"`+chi.URLParam(r, "id")+`"}`)
	})
	r.Post("/echo", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_, _ = w.Write(b)
	})
	r.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	return r
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) responder.Payload {
	t.Helper()
	var p responder.Payload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestStack_CorrelatesAuditLines(t *testing.T) {
	buf := captureLogs(t)
	r := newTestRouter(StackConfig{EnableAudit: true})

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"a":1}`, rec.Body.String())

	txID := rec.Header().Get(HeaderTransactionID)
	require.NotEmpty(t, txID)

	for _, event := range []string{"audit.request", "audit.response"} {
		lines := eventLines(t, buf, event)
		require.Len(t, lines, 1, event)
		assert.Equal(t, txID, lines[0][log.FieldTransactionID], event)
	}
	resp := eventLines(t, buf, "audit.response")[0]
	assert.Equal(t, txID, resp[log.FieldHeaders].(map[string]any)[http.CanonicalHeaderKey(HeaderTransactionID)])
}

func TestStack_NotFoundUsesCatalog(t *testing.T) {
	captureLogs(t)
	r := newTestRouter(StackConfig{EnableAudit: true})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderTransactionID))
	assert.Equal(t, "GEN-404", decodeBody(t, rec).Code)
}

func TestStack_MethodNotAllowedIsBadRequest(t *testing.T) {
	captureLogs(t)
	r := newTestRouter(StackConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/echo", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "GEN-400", decodeBody(t, rec).Code)
}

func TestStack_DomainErrorFallsBackToUnknown(t *testing.T) {
	captureLogs(t)
	r := newTestRouter(StackConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/missing", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "GEN-500", decodeBody(t, rec).Code)
}

func TestStack_PanicIsAuditedAsServiceUnavailable(t *testing.T) {
	buf := captureLogs(t)
	r := newTestRouter(StackConfig{EnableAudit: true})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "GEN-503", decodeBody(t, rec).Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderTransactionID))

	resp := eventLines(t, buf, "audit.response")
	require.Len(t, resp, 1)
	assert.Equal(t, float64(http.StatusServiceUnavailable), resp[0][log.FieldStatus])

	faults := eventLines(t, buf, "error.unclassified")
	require.Len(t, faults, 1)
	assert.Contains(t, faults[0][log.FieldStack], "goroutine")
}

func TestStack_RateLimitRendersCatalogEntry(t *testing.T) {
	captureLogs(t)
	r := newTestRouter(StackConfig{
		EnableRateLimit: true,
		RateLimit:       RateLimitConfig{RequestLimit: 1, WindowSize: time.Minute},
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/categories/c-1", nil))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/categories/c-1", nil))

	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.Equal(t, "GEN-429", decodeBody(t, second).Code)
}

func TestStack_RateLimitWithoutEntryFallsBack(t *testing.T) {
	captureLogs(t)
	cat := catalog.Build(catalog.FromMap("minimal", map[string]catalog.Entry{
		apperr.KeyUnknown: {Code: "UE", Status: http.StatusInternalServerError, Message: "unknown"},
	}))
	r := newTestRouter(StackConfig{
		Responder:       responder.New(cat),
		EnableRateLimit: true,
		RateLimit: RateLimitConfig{
			RequestLimit: 1,
			WindowSize:   time.Minute,
			KeyFunc:      func(*http.Request) (string, error) { return "everyone", nil },
		},
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/categories/c-1", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/c-1", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "UE", decodeBody(t, rec).Code)
}

func TestStack_MetricsObserveRoutePattern(t *testing.T) {
	captureLogs(t)
	r := newTestRouter(StackConfig{EnableMetrics: true})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories/c-42", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpRequestDuration, "common_http_request_duration_seconds"), 1)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight))

	obs, err := httpRequestDuration.GetMetricWithLabelValues(http.MethodGet, "/categories/{id}", "200")
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, obs.(prometheus.Metric).Write(&m))
	assert.GreaterOrEqual(t, m.GetHistogram().GetSampleCount(), uint64(1))
}

func TestStack_TracingPropagatesParentContext(t *testing.T) {
	captureLogs(t)
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	var traceID string
	r := NewRouter(StackConfig{
		Responder:      responder.New(catalog.Build(catalog.Defaults())),
		TracingService: "go-common-test",
	})
	r.Get("/traced", func(w http.ResponseWriter, r *http.Request) {
		traceID = trace.SpanContextFromContext(r.Context()).TraceID().String()
	})

	req := httptest.NewRequest(http.MethodGet, "/traced", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID)
}
