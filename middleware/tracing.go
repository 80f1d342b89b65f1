package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/router"
)

const tracerName = "github.com/dmitrymomot/dispatch/middleware"

// TracingConfig configures the tracing middleware.
type TracingConfig struct {
	Skip func(ctx handler.Context) bool
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
	// Propagator defaults to the global text map propagator.
	Propagator propagation.TextMapPropagator
}

// Tracing starts a server span per request, continuing any trace propagated
// in the request headers. Spans are named "METHOD pattern" after the matched
// route, or just the method when nothing matched. When the context supports
// handler.RequestReplacer the span is attached to the request context for
// inner handlers and outgoing calls.
func Tracing[C handler.Context]() handler.Middleware[C] {
	return TracingWithConfig[C](TracingConfig{})
}

func TracingWithConfig[C handler.Context](cfg TracingConfig) handler.Middleware[C] {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.Propagator == nil {
		cfg.Propagator = otel.GetTextMapPropagator()
	}
	tracer := cfg.TracerProvider.Tracer(tracerName)

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			parent := cfg.Propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			pattern := router.RoutePattern(req.Context())
			name := req.Method
			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", req.Method),
				attribute.String("url.path", req.URL.Path),
			}
			if pattern != "" {
				name += " " + pattern
				attrs = append(attrs, attribute.String("http.route", pattern))
			}

			spanCtx, span := tracer.Start(parent, name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			if rr, ok := any(ctx).(handler.RequestReplacer); ok {
				rr.SetRequest(req.WithContext(spanCtx))
			}

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				defer span.End()

				sw := &statusWriter{ResponseWriter: w}
				err := render(resp, sw, r)

				status := sw.statusOf(err)
				span.SetAttributes(attribute.Int("http.response.status_code", status))
				if err != nil {
					span.RecordError(err)
				}
				if status >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(status))
				}
				return err
			}
		}
	}
}

// TraceIDExtractor adds the active trace id to log records. Use it with
// logger.WithContextExtractors.
func TraceIDExtractor(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return nil
	}
	return []slog.Attr{logger.TraceID(sc.TraceID().String())}
}
