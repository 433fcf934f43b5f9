// SPDX-License-Identifier: MIT

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestContextWithTransactionID(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
		want string
	}{
		{
			name: "nil context",
			ctx:  nil,
			id:   "test-id-123",
			want: "test-id-123",
		},
		{
			name: "background context",
			ctx:  context.Background(),
			id:   "tx-456",
			want: "tx-456",
		},
		{
			name: "empty transaction ID",
			ctx:  context.Background(),
			id:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract under test
			ctx := ContextWithTransactionID(tt.ctx, tt.id)
			got := TransactionIDFromContext(ctx)
			if got != tt.want {
				t.Errorf("TransactionIDFromContext() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransactionIDFromContextEmpty(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "nil context", ctx: nil},
		{name: "context without transaction ID", ctx: context.Background()},
		{name: "context with wrong type", ctx: context.WithValue(context.Background(), transactionIDKey, 123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransactionIDFromContext(tt.ctx); got != "" {
				t.Errorf("TransactionIDFromContext() = %q, want empty", got)
			}
		})
	}
}

func captureBase(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Reset()
	Configure(Config{Output: &buf, Level: "debug", Service: "test"})
	t.Cleanup(func() {
		Reset()
		Configure(Config{})
	})
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestWithContext_AddsTransactionID(t *testing.T) {
	buf := captureBase(t)

	ctx := ContextWithTransactionID(context.Background(), "tx-1")
	l := WithContext(ctx, Base())
	l.Info().Msg("hello")

	entry := decodeLine(t, buf)
	assert.Equal(t, "tx-1", entry[FieldTransactionID])
	assert.Equal(t, "test", entry[FieldService])
}

func TestWithContext_NoFieldsKeepsLogger(t *testing.T) {
	buf := captureBase(t)

	l := WithContext(context.Background(), Base())
	l.Info().Msg("plain")

	entry := decodeLine(t, buf)
	_, ok := entry[FieldTransactionID]
	assert.False(t, ok)
}

func TestFromContext(t *testing.T) {
	buf := captureBase(t)

	t.Run("attached logger wins", func(t *testing.T) {
		buf.Reset()
		attached := Base().With().Str("attached", "yes").Logger()
		ctx := attached.WithContext(context.Background())
		FromContext(ctx).Info().Msg("x")
		assert.Equal(t, "yes", decodeLine(t, buf)["attached"])
	})

	t.Run("falls back to enriched base", func(t *testing.T) {
		buf.Reset()
		ctx := ContextWithTransactionID(context.Background(), "tx-2")
		FromContext(ctx).Info().Msg("x")
		assert.Equal(t, "tx-2", decodeLine(t, buf)[FieldTransactionID])
	})

	t.Run("nil context", func(t *testing.T) {
		buf.Reset()
		//nolint:staticcheck // nil context is part of the contract under test
		FromContext(nil).Info().Msg("x")
		assert.Equal(t, "x", decodeLine(t, buf)["message"])
	})
}

func TestWithComponentFromContext(t *testing.T) {
	buf := captureBase(t)

	l := WithComponentFromContext(context.Background(), "audit")
	l.Info().Msg("x")

	assert.Equal(t, "audit", decodeLine(t, buf)[FieldComponent])
}

func TestWithTraceContext(t *testing.T) {
	buf := captureBase(t)

	t.Run("no span", func(t *testing.T) {
		buf.Reset()
		l := WithTraceContext(context.Background())
		l.Info().Msg("x")
		entry := decodeLine(t, buf)
		_, ok := entry[FieldTraceID]
		assert.False(t, ok)
	})

	t.Run("valid span", func(t *testing.T) {
		buf.Reset()
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
		ctx = ContextWithTransactionID(ctx, "tx-3")

		l := WithTraceContext(ctx)
		l.Info().Msg("x")

		entry := decodeLine(t, buf)
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entry[FieldTraceID])
		assert.Equal(t, "00f067aa0ba902b7", entry[FieldSpanID])
		assert.Equal(t, "tx-3", entry[FieldTransactionID])
	})
}
