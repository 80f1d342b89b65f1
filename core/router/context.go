package router

import (
	"context"
	"net/http"
	"time"
)

// Context is the default handler.Context. Values set with SetValue are stored
// on the request's context, so anything reading the request sees them too.
type Context struct {
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string
}

// NewContext builds a Context. It is the default context factory.
func NewContext(w http.ResponseWriter, r *http.Request, params map[string]string) *Context {
	return &Context{w: w, r: r, params: params}
}

func (c *Context) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *Context) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *Context) Err() error                  { return c.r.Context().Err() }
func (c *Context) Value(key any) any           { return c.r.Context().Value(key) }

// SetValue stores val under key for the rest of the request.
func (c *Context) SetValue(key, val any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

// SetRequest replaces the request. The matched route pattern travels in
// the request context, so r should derive from Request().
func (c *Context) SetRequest(r *http.Request) {
	if r != nil {
		c.r = r
	}
}

func (c *Context) Request() *http.Request              { return c.r }
func (c *Context) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns the captured path parameter, or "".
func (c *Context) Param(key string) string { return c.params[key] }

// Params returns all captured path parameters.
func (c *Context) Params() map[string]string { return c.params }

type routePatternKey struct{}

// RoutePattern returns the pattern of the route matched for the request that
// ctx belongs to, or "" when nothing matched.
func RoutePattern(ctx context.Context) string {
	p, _ := ctx.Value(routePatternKey{}).(string)
	return p
}
