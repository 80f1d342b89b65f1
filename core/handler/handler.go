package handler

import "net/http"

// Response renders the outcome of a handler onto the wire.
// It sets headers, status code, and writes the body. Errors it returns are
// routed to the router's error handler, which only writes when nothing has
// been sent yet.
type Response func(w http.ResponseWriter, r *http.Request) error

// HandlerFunc turns a request context into a Response.
type HandlerFunc[C Context] func(ctx C) Response

// ErrorHandler renders an error that escaped a handler or its Response.
type ErrorHandler[C Context] func(ctx C, err error)

// Middleware wraps a handler. It may rewrite the context before calling next,
// return its own Response without calling next, or wrap the Response next returns.
type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]

// Chain composes middlewares right-associatively: the first middleware is the
// outermost layer and sees the request first and the response last.
func Chain[C Context](middlewares ...Middleware[C]) Middleware[C] {
	return func(next HandlerFunc[C]) HandlerFunc[C] {
		h := next
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] == nil {
				continue
			}
			h = middlewares[i](h)
		}
		return h
	}
}

// Then is a shorthand for Chain(middlewares...)(h).
func Then[C Context](h HandlerFunc[C], middlewares ...Middleware[C]) HandlerFunc[C] {
	return Chain(middlewares...)(h)
}
