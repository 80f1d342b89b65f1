package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
)

// Tree is an immutable, compiled routing table. It is safe for concurrent use
// and is never modified after Build returns it; to change routes, build a new
// Tree and swap it in with Live.
type Tree[C handler.Context] struct {
	root         *node[C]
	routes       []Route
	global       handler.Middleware[C]
	errorHandler handler.ErrorHandler[C]
	fallback     handler.Fallback[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
}

// Match is the result of a successful Lookup.
type Match[C handler.Context] struct {
	// Handler is the route's handler wrapped in its scope middleware.
	Handler handler.HandlerFunc[C]
	// Pattern is the pattern the route was registered with.
	Pattern string
	// Params holds the captured parameters. Wildcards capture the remaining
	// path, which may be empty.
	Params map[string]string
}

// Lookup resolves method and path (in escaped form). It returns ErrNotFound
// when no route matches the path and a *MethodNotAllowedError, which also
// matches ErrMethodNotAllowed, when the path exists for other methods only.
func (t *Tree[C]) Lookup(method, path string) (Match[C], error) {
	ep, ps, err := t.root.lookup(method, path)
	if err != nil {
		return Match[C]{}, err
	}
	return Match[C]{
		Handler: ep.handler,
		Pattern: ep.pattern.String(),
		Params:  paramsMap(ps),
	}, nil
}

// Routes returns the compiled routes sorted by pattern, then method.
func (t *Tree[C]) Routes() []Route {
	return slices.Clone(t.routes)
}

// ServeHTTP dispatches one request. Router-level middleware wraps every
// request, including ones that match no route, so middleware such as CORS
// can answer preflight requests. The route handler runs inside a panic
// boundary; exactly one response is written.
func (t *Tree[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ww := newResponseWriter(w)

	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	var (
		terminal handler.HandlerFunc[C]
		params   map[string]string
	)
	match, err := t.Lookup(r.Method, path)
	if err != nil {
		terminal = lookupFailure[C](err)
	} else {
		terminal = match.Handler
		params = match.Params
		r = r.WithContext(context.WithValue(r.Context(), routePatternKey{}, match.Pattern))
	}

	ctx := t.newContext(ww, r, params)

	h := handler.CatchUnwind(t.global(terminal), t.fallback)
	resp := h(ctx)
	if resp == nil {
		t.handleError(ctx, ww, ErrNilResponse)
		return
	}
	if err := resp(ww, ctx.Request()); err != nil {
		t.handleError(ctx, ww, err)
	}
}

func (t *Tree[C]) handleError(ctx C, ww *responseWriter, err error) {
	var perr handler.PanicError
	isPanic := errors.As(err, &perr)

	req := ctx.Request()
	if ww.Written() {
		if isPanic {
			t.logger.ErrorContext(req.Context(), "panic after response written",
				logger.Panic(perr.Value()),
				logger.Stack(perr.Stack()),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.StatusCode(ww.Status()),
			)
		} else {
			t.logger.ErrorContext(req.Context(), "error after response written",
				logger.Error(err),
				logger.Method(req.Method),
				logger.Path(req.URL.Path),
				logger.StatusCode(ww.Status()),
			)
		}
		return
	}
	if isPanic {
		t.logger.ErrorContext(req.Context(), "handler panic",
			logger.Panic(perr.Value()),
			logger.Stack(perr.Stack()),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
		)
	}
	t.errorHandler(ctx, err)
}

// lookupFailure is the terminal handler for requests no route serves.
func lookupFailure[C handler.Context](err error) handler.HandlerFunc[C] {
	return func(C) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			var mna *MethodNotAllowedError
			if errors.As(err, &mna) {
				w.Header().Set("Allow", strings.Join(mna.Allowed, ", "))
			}
			return err
		}
	}
}

func paramsMap(ps []param) map[string]string {
	if len(ps) == 0 {
		return nil
	}
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.key] = p.value
	}
	return m
}

func sortRoutes(routes []Route) {
	slices.SortFunc(routes, func(a, b Route) int {
		if c := strings.Compare(a.Pattern, b.Pattern); c != 0 {
			return c
		}
		return strings.Compare(a.Method, b.Method)
	})
}
