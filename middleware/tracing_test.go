package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
	"github.com/dmitrymomot/dispatch/core/router"
	"github.com/dmitrymomot/dispatch/middleware"
)

func tracedRouter(t *testing.T) (router.Router[ctx], *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	r := router.New[ctx]()
	r.Use(middleware.TracingWithConfig[ctx](middleware.TracingConfig{
		TracerProvider: tp,
		Propagator:     propagation.TraceContext{},
	}))
	return r, sr
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestTracingNamesSpanAfterRoute(t *testing.T) {
	t.Parallel()

	r, sr := tracedRouter(t)
	r.Get("/users/:id", func(c ctx) handler.Response {
		span := trace.SpanFromContext(c)
		return text(span.SpanContext().TraceID().String())
	})

	rec := do(r, httptest.NewRequest(http.MethodGet, "/users/42", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /users/:id", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, span.SpanContext().TraceID().String(), rec.Body.String(), "span is visible to the handler")

	a := attrs(span)
	assert.Equal(t, "/users/:id", a["http.route"].AsString())
	assert.Equal(t, "/users/42", a["url.path"].AsString())
	assert.Equal(t, int64(200), a["http.response.status_code"].AsInt64())
}

func TestTracingContinuesIncomingTrace(t *testing.T) {
	t.Parallel()

	r, sr := tracedRouter(t)
	r.Get("/", ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	do(r, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext().TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent().SpanID().String())
}

func TestTracingErrors(t *testing.T) {
	t.Parallel()

	r, sr := tracedRouter(t)
	r.Get("/fail", func(ctx) handler.Response {
		return response.Error(response.ErrServiceUnavailable)
	})

	do(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	spans := sr.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, int64(503), attrs(spans[0])["http.response.status_code"].AsInt64())
	assert.NotEmpty(t, spans[0].Events(), "error recorded as span event")

	assert.Equal(t, "GET", spans[1].Name())
	assert.Equal(t, int64(404), attrs(spans[1])["http.response.status_code"].AsInt64())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestTraceIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithContextExtractors(middleware.TraceIDExtractor))

	r, sr := tracedRouter(t)
	r.Get("/", func(c ctx) handler.Response {
		log.InfoContext(c, "traced")
		return text("ok")
	})
	do(r, httptest.NewRequest(http.MethodGet, "/", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, buf.String(), "trace_id="+spans[0].SpanContext().TraceID().String())
	assert.Nil(t, middleware.TraceIDExtractor(context.Background()))
}
