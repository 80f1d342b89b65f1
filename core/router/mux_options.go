package router

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Option configures a Router during creation.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler sets the handler that renders lookup failures, handler
// errors and recovered panics.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware adds router-level middleware, same as calling Use first.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory sets how per-request contexts are built.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, map[string]string) C) Option[C] {
	return func(m *mux[C]) {
		if f != nil {
			m.newContext = f
		}
	}
}

// WithLogger sets the logger used for failures that cannot be reported to the client.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
			m.loggerSet = true
		}
	}
}

// WithPanicFallback replaces the response served when a handler panics.
// By default the panic is passed to the error handler.
func WithPanicFallback[C handler.Context](fb handler.Fallback[C]) Option[C] {
	return func(m *mux[C]) {
		if fb != nil {
			m.fallback = fb
		}
	}
}
