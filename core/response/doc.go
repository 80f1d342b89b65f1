// Package response provides handler.Response constructors for common
// payloads, redirects, structured errors and Server-Sent Events.
//
// Every constructor returns a value; nothing is written until the router
// renders it after the middleware chain has returned.
//
//	r.Get("/", func(ctx *router.Context) handler.Response {
//		return response.HTML("<h1>hello</h1>")
//	})
//
//	r.Post("/login", func(ctx *router.Context) handler.Response {
//		return response.RedirectSeeOther("/dashboard")
//	})
//
// # Errors
//
// HTTPError is a structured error carrying a status, a machine-readable code
// and a message. Return it with Error and render it with ErrorHandler or
// JSONErrorHandler, installed through router.WithErrorHandler. Any error
// implementing StatusCode() int is mapped onto the matching HTTPError; server
// errors never expose their underlying message.
//
// # Server-Sent Events
//
// Event builds a single message:
//
//	response.NewEvent().Event("tick").Data("line one\nline two").ID("7").Retry(3000)
//
// renders as
//
//	event:tick
//	data: line one
//	data: line two
//	id:7
//	retry:3000
//
// followed by a blank line. SSE streams events from a channel with periodic
// keep-alive comments.
package response
