package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger() (*zap.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)
	return zap.New(core), &buf
}

func validSpanContext(t *testing.T) trace.SpanContext {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestFromContext(t *testing.T) {
	t.Run("returns stored logger", func(t *testing.T) {
		base, _ := newBufferLogger()
		ctx := WithContext(context.Background(), base)
		assert.Equal(t, base, FromContext(ctx))
	})

	t.Run("falls back to nop", func(t *testing.T) {
		logger := FromContext(context.Background())
		require.NotNil(t, logger)
		assert.NotPanics(t, func() { logger.Info("ignored") })
	})

	t.Run("wrong type falls back to nop", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotNil(t, FromContext(ctx))
	})
}

func TestWithRequestID(t *testing.T) {
	base, _ := newBufferLogger()
	ctx, enriched := WithRequestID(context.Background(), base, "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.NotEqual(t, base, enriched)
	assert.Equal(t, enriched, FromContext(ctx))

	ctx, _ = WithRequestID(ctx, base, "req-456")
	assert.Equal(t, "req-456", GetRequestID(ctx))
}

func TestWithOrder(t *testing.T) {
	base, buf := newBufferLogger()
	ctx, enriched := WithOrder(context.Background(), base, 3, 90210)

	assert.Equal(t, "3", GetStoreID(ctx))
	assert.Equal(t, "90210", GetOrderID(ctx))

	enriched.Info("importing")
	assert.Contains(t, buf.String(), `"store_id":"3"`)
	assert.Contains(t, buf.String(), `"channable_order_id":"90210"`)
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetStoreID(ctx))
	assert.Empty(t, GetOrderID(ctx))
}

// =============================================================================
// Trace Correlation Tests
// =============================================================================

func TestTraceIDs_NoSpan(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))

	base := zap.NewNop()
	assert.Equal(t, base, WithTraceContext(ctx, base))
}

func TestTraceIDs_NoopSpan(t *testing.T) {
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "noop")
	defer span.End()

	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func TestTraceIDs_ValidSpan(t *testing.T) {
	ctx := trace.ContextWithSpanContext(context.Background(), validSpanContext(t))

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(ctx))
	assert.Equal(t, "00f067aa0ba902b7", GetSpanID(ctx))

	base, buf := newBufferLogger()
	WithTraceContext(ctx, base).Info("traced")
	assert.Contains(t, buf.String(), `"trace_id":"4bf92f3577b34da6a3ce929d0e0e4736"`)
}

// =============================================================================
// ContextLogger Tests
// =============================================================================

func TestContextLogger_EnrichesWithContextFields(t *testing.T) {
	base, buf := newBufferLogger()

	ctx := context.Background()
	ctx, _ = WithRequestID(ctx, base, "req-123")
	ctx, _ = WithOrder(ctx, base, 1, 555)
	ctx = WithContext(ctx, base)
	ctx = trace.ContextWithSpanContext(ctx, validSpanContext(t))

	L(ctx).Info("test message", zap.String("extra_field", "extra_value"))

	output := buf.String()
	assert.Contains(t, output, `"request_id":"req-123"`)
	assert.Contains(t, output, `"store_id":"1"`)
	assert.Contains(t, output, `"channable_order_id":"555"`)
	assert.Contains(t, output, `"span_id":"00f067aa0ba902b7"`)
	assert.Contains(t, output, `"extra_field":"extra_value"`)
}

func TestContextLogger_EmptyContextFields(t *testing.T) {
	base, buf := newBufferLogger()
	WithLogger(context.Background(), base).Info("test")

	output := buf.String()
	assert.Contains(t, output, `"msg":"test"`)
	assert.NotContains(t, output, `"request_id"`)
	assert.NotContains(t, output, `"store_id"`)
}

func TestContextLogger_With(t *testing.T) {
	base, buf := newBufferLogger()
	cl := WithLogger(context.Background(), base).
		With(zap.String("field1", "value1")).
		With(zap.String("field2", "value2"))

	cl.Warn("chained")
	assert.Contains(t, buf.String(), `"field1":"value1"`)
	assert.Contains(t, buf.String(), `"field2":"value2"`)
	assert.NotNil(t, cl.Zap())
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := &ContextLogger{ctx: context.Background()}
	assert.NotPanics(t, func() {
		cl.Debug("debug")
		cl.Info("info")
		cl.Error("error")
	})
}
