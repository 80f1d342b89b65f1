// Package binder decodes request input into structs and exposes each decoder
// as a handler.Extractor, so binding failures travel the same error path as
// every other extraction and render as 400 Bad Request.
//
// Four sources are supported:
//
//	binder.JSON[C, T]()  // application/json body, unknown fields rejected
//	binder.Form[C, T]()  // urlencoded or multipart body, `form` and `file` tags
//	binder.Query[C, T]() // URL query, `query` tag
//	binder.Path[C, T]()  // router parameters, `param` tag
//
// Untagged fields bind under their lower-cased name for query and path
// sources. A "-" tag skips the field. Supported field kinds are strings,
// signed and unsigned integers, floats, bools, pointers to those, and slices
// of those; a single comma-separated value fills a slice.
//
// Example:
//
//	type createUser struct {
//		Name  string `json:"name"`
//		Email string `json:"email"`
//	}
//
//	r.Post("/users", handler.Handle(binder.JSON[*router.Context, createUser](),
//		func(ctx *router.Context, in createUser) handler.Response {
//			return response.JSONWithStatus(in, http.StatusCreated)
//		}))
//
// Bodies are read through whatever limit the BodyLimit middleware installed;
// an over-limit body keeps its *http.MaxBytesError in the error chain and is
// answered with 413.
package binder
