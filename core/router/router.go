package router

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Router collects route registrations and middleware. Build compiles them
// into an immutable Tree; ServeHTTP builds one lazily on the first request.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method handlers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])
	Connect(pattern string, h handler.HandlerFunc[C])
	Trace(pattern string, h handler.HandlerFunc[C])

	// Generic handlers
	Handle(pattern string, h handler.HandlerFunc[C])
	Method(pattern string, h handler.HandlerFunc[C], methods ...string)

	// Middleware
	Use(middlewares ...handler.Middleware[C])
	With(middlewares ...handler.Middleware[C]) Router[C]

	// Grouping and mounting
	Group(fn func(r Router[C])) Router[C]
	Route(pattern string, fn func(r Router[C])) Router[C]
	Mount(pattern string, sub Router[C])

	// Compilation
	Build() (*Tree[C], error)
}

// Routes provides route introspection.
type Routes interface {
	Routes() []Route
}

// Route describes a registered route. Method is "*" for routes registered
// with Handle.
type Route struct {
	Method  string
	Pattern string
}

// New creates a router. Without WithContextFactory the context type must be
// *Context; any other type panics with ErrNoContextFactory.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}

// MustBuild compiles r and panics on registration errors.
func MustBuild[C handler.Context](r Router[C]) *Tree[C] {
	t, err := r.Build()
	if err != nil {
		panic(err)
	}
	return t
}
