// Package handler defines the composition model shared by the router and all
// middleware: a request Context, a HandlerFunc that produces a Response, and
// Middleware that wraps handlers.
//
// Responses are values. A handler returns a Response without writing anything;
// the router renders it once the whole middleware chain has returned. This lets
// middleware post-process a response (add headers, set cookies) by wrapping it:
//
//	func poweredBy[C handler.Context](next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
//		return func(ctx C) handler.Response {
//			resp := next(ctx)
//			return func(w http.ResponseWriter, r *http.Request) error {
//				w.Header().Set("X-Powered-By", "dispatch")
//				return resp(w, r)
//			}
//		}
//	}
//
// # Composition
//
// Chain composes middleware right-associatively, so
//
//	handler.Chain(a, b, c)(h)
//
// equals a(b(c(h))): a sees the request first and the response last.
//
// # Extractors
//
// Extractor functions pull typed input out of a request. Handle adapts a
// function taking an extracted value into a HandlerFunc; a failed extraction
// surfaces as an *ExtractionError (400) through the error handler.
//
//	show := handler.Handle(handler.PathParam[*router.Context]("username"),
//		func(ctx *router.Context, name string) handler.Response {
//			return response.String("hello " + name)
//		})
//
// # Panic isolation
//
// CatchUnwind turns a panic in a handler or its Response into a PanicError and
// serves the fallback's Response instead. The router installs it around every
// request; the middleware package exposes it with logging as Recover.
package handler
