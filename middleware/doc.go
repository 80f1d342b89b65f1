// Package middleware provides the cross-cutting layers of the request
// pipeline: CORS, CSRF protection, sessions, request ids, access logging,
// tracing, panic recovery, body limits and security headers.
//
// Every middleware is a generic handler.Middleware[C], so it composes with
// any context type the router is parameterised with. Each one comes as a
// default constructor plus a WithConfig variant, and configs carry an
// optional Skip predicate.
//
// Middleware communicates with inner layers through the context's value slot
// and exposes typed getters for what it stores:
//
//	r := router.New[*router.Context]()
//	r.Use(
//		middleware.RequestID[*router.Context](),
//		middleware.LoggingWithLogger[*router.Context](log),
//		middleware.CORS[*router.Context](),
//		middleware.CSRF[*router.Context](cookies, middleware.CSRFConfig{}),
//		middleware.Session[*router.Context](sessions, cookies, middleware.SessionConfig{}),
//	)
//
//	r.Get("/", func(ctx *router.Context) handler.Response {
//		token, _ := middleware.CSRFToken(ctx)
//		sess, _ := middleware.GetSession[Visits](ctx)
//		sess.Update(func(v *Visits) { v.Count++ })
//		return response.String(token)
//	})
//
// Short-circuiting layers (CORS preflight, CSRF failure, oversized bodies)
// return their own Response without calling the handler. Post-processing
// layers wrap the Response the handler returns, so headers and cookies are set
// before the handler's output is written.
//
// Router-level middleware installed with Use also runs for requests that match
// no route, which is what lets CORS answer preflight requests.
package middleware
