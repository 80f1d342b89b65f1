// Package router maps HTTP method and path to handlers using a segment trie.
//
// Routes are registered on a Router and compiled into an immutable Tree:
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context]())
//	r.Get("/", index)
//	r.Get("/:username", profile)
//	r.Route("/api", func(api router.Router[*router.Context]) {
//		api.With(auth).Post("/items", createItem)
//		api.Get("/files/*path", serveFile)
//	})
//
//	tree, err := r.Build() // reports every route conflict
//	if err != nil {
//		return err
//	}
//	http.ListenAndServe(":8080", tree)
//
// A Router is itself an http.Handler that builds its tree on the first request;
// after that no more routes can be added.
//
// # Matching
//
// Patterns are slash-separated segments: literals, parameters (":id" or
// "{id}") and a trailing wildcard ("*path", "{path...}" or "*"). At every
// depth a literal child is tried before the parameter child, and the walk
// falls back to the parameter child when the literal branch leads nowhere.
// A wildcard captures the remaining path, slashes included, and may capture
// an empty remainder ("/files/" matches "/files/*path" with path "").
//
// Repeated slashes in the request path are collapsed. A trailing slash is
// significant: "/users" and "/users/" are different routes. Parameter values
// are percent-decoded.
//
// Two registrations conflict when they share method and pattern, or when they
// place a different parameter or wildcard at the same position (":id" next to
// ":name"). Build returns all conflicts joined; MustBuild panics.
//
// When a path matches but the method does not, the tree answers 405 with an
// Allow header listing the registered methods. HEAD is also served by GET
// routes but is not listed unless registered.
//
// # Middleware
//
// Middleware registered with Use on the top-level router wraps every request,
// matched or not. Middleware from With, Group, Route and Mount scopes wraps only
// the routes registered inside them, nested inside the outer scopes.
//
// # Panics and errors
//
// Each request runs inside handler.CatchUnwind. A panic in a handler or in its
// Response is turned into a handler.PanicError and passed to the error handler
// (see WithErrorHandler and WithPanicFallback). If the response has already
// started, the panic is logged instead.
//
// Registration conflicts are reported by Build. Used directly as an
// http.Handler, a router that fails to build answers every request with 500
// and logs the build error, so servers should call Build or MustBuild before
// they start listening.
//
// # Hot reload
//
// Live holds the served Tree behind an atomic pointer. Reload builds a new
// tree and swaps it in; in-flight requests finish on the tree they started on.
package router
