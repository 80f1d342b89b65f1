package handler

import (
	"context"
	"net/http"
)

// Context is the per-request value every handler and middleware receives.
// Besides the standard context it exposes the request, the response writer,
// the path parameters captured by the router, and a request-scoped slot for
// values middleware hands down to inner layers (sessions, CSRF tokens, ids).
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// RequestReplacer is implemented by contexts that let middleware swap the
// request, typically to attach a derived context.Context such as a tracing
// span. Middleware must fall back gracefully when C does not implement it.
type RequestReplacer interface {
	SetRequest(r *http.Request)
}
