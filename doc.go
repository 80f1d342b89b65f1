// Package dispatch is the request-dispatch core of an HTTP server: a trie
// router with static, parameter and wildcard segments, a generic handler and
// middleware model, a panic isolation boundary, and the cross-cutting
// middleware that rides on it.
//
// # Packages
//
// Core:
//
//   - github.com/dmitrymomot/dispatch/core/handler: Context, HandlerFunc, Response, Middleware, CatchUnwind and extractors
//   - github.com/dmitrymomot/dispatch/core/router: pattern parsing, Router registration, immutable Tree, Live swapping
//   - github.com/dmitrymomot/dispatch/core/response: response builders, HTTP error catalogue, server-sent events
//   - github.com/dmitrymomot/dispatch/core/binder: JSON, form, query and path binding as extractors
//   - github.com/dmitrymomot/dispatch/core/session: session contracts, manager and in-memory store
//   - github.com/dmitrymomot/dispatch/core/csrf: token generation and verification
//   - github.com/dmitrymomot/dispatch/core/cookie: plain and signed cookies
//   - github.com/dmitrymomot/dispatch/core/static: files from fs.FS or disk behind wildcard routes
//   - github.com/dmitrymomot/dispatch/core/health: liveness and readiness handlers
//   - github.com/dmitrymomot/dispatch/core/server: TCP and Unix socket server with graceful shutdown
//   - github.com/dmitrymomot/dispatch/core/config: environment loading
//   - github.com/dmitrymomot/dispatch/core/logger: slog construction and attribute helpers
//
// Middleware:
//
//   - github.com/dmitrymomot/dispatch/middleware: CORS, CSRF, Session, Recover, RequestID, Logging, Tracing, BodyLimit, SecurityHeaders
//
// Integrations:
//
//   - github.com/dmitrymomot/dispatch/integration/database/redis: connection helper and Redis session store
//
// Commands:
//
//   - github.com/dmitrymomot/dispatch/cmd/dispatchd: demo server wiring everything above
//
// # Quick start
//
//	r := router.New[*router.Context]()
//	r.Use(middleware.RequestID[*router.Context](), middleware.Logging[*router.Context]())
//	r.Get("/users/:id", func(ctx *router.Context) handler.Response {
//		return response.JSON(map[string]string{"id": ctx.Param("id")})
//	})
//	tree := router.MustBuild(r)
//	log.Fatal(server.Run(ctx, ":8080", tree))
package dispatch
