package router

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
)

var methods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// registration is a route or a mounted router, recorded in order. Middleware
// is resolved from scope when the tree is built.
type registration[C handler.Context] struct {
	method  string
	pattern string
	handler handler.HandlerFunc[C]
	sub     *mux[C]
	scope   *mux[C]
}

// mux is the private implementation of Router. Inline scopes created by With
// and Group share their root's registration list.
type mux[C handler.Context] struct {
	root        *mux[C]
	parent      *mux[C]
	middlewares []handler.Middleware[C]

	// root-only state
	regs         []registration[C]
	errorHandler handler.ErrorHandler[C]
	fallback     handler.Fallback[C]
	newContext   func(http.ResponseWriter, *http.Request, map[string]string) C
	logger       *slog.Logger
	loggerSet    bool

	once     sync.Once
	tree     *Tree[C]
	buildErr error
	built    bool
	mu       sync.Mutex
}

func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		errorHandler: defaultErrorHandler[C],
		logger:       logger.Nop(),
	}
	m.root = m

	for _, opt := range opts {
		opt(m)
	}

	if m.newContext == nil {
		var zero C
		if _, ok := any(zero).(*Context); !ok {
			panic(ErrNoContextFactory)
		}
		m.newContext = func(w http.ResponseWriter, r *http.Request, params map[string]string) C {
			return any(NewContext(w, r, params)).(C)
		}
	}

	return m
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, h)
}

// Head registers a handler for HEAD requests.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, h)
}

// Connect registers a handler for CONNECT requests.
func (m *mux[C]) Connect(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodConnect, pattern, h)
}

// Trace registers a handler for TRACE requests.
func (m *mux[C]) Trace(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodTrace, pattern, h)
}

// Handle registers a handler for every method.
func (m *mux[C]) Handle(pattern string, h handler.HandlerFunc[C]) {
	m.handle(anyMethod, pattern, h)
}

// Method registers a handler for the given methods.
func (m *mux[C]) Method(pattern string, h handler.HandlerFunc[C], methodNames ...string) {
	if len(methodNames) == 0 {
		panic(fmt.Errorf("%w: no methods provided", ErrInvalidMethod))
	}

	seen := make(map[string]struct{}, len(methodNames))
	for _, name := range methodNames {
		method := strings.ToUpper(name)
		if _, ok := methods[method]; !ok {
			panic(fmt.Errorf("%w: %s", ErrInvalidMethod, name))
		}
		if _, dup := seen[method]; dup {
			continue
		}
		seen[method] = struct{}{}
		m.handle(method, pattern, h)
	}
}

// Use appends middleware to this scope. On a root router it must be called
// before any route is registered.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	if m.root == m && len(m.regs) > 0 {
		panic(ErrLateMiddleware)
	}
	m.middlewares = append(m.middlewares, middlewares...)
}

// With returns an inline scope whose routes run the given middleware inside
// this scope's middleware.
func (m *mux[C]) With(middlewares ...handler.Middleware[C]) Router[C] {
	return &mux[C]{
		root:        m.root,
		parent:      m,
		middlewares: append([]handler.Middleware[C](nil), middlewares...),
	}
}

// Group creates an inline scope and passes it to fn.
func (m *mux[C]) Group(fn func(r Router[C])) Router[C] {
	im := m.With()
	if fn != nil {
		fn(im)
	}
	return im
}

// Route creates a sub-router, lets fn populate it, and mounts it at pattern.
func (m *mux[C]) Route(pattern string, fn func(r Router[C])) Router[C] {
	if fn == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilSubrouter, pattern))
	}
	root := m.root
	sub := &mux[C]{
		errorHandler: root.errorHandler,
		fallback:     root.fallback,
		newContext:   root.newContext,
		logger:       root.logger,
	}
	sub.root = sub

	fn(sub)
	m.Mount(pattern, sub)
	return sub
}

// Mount attaches sub at pattern. The sub-router's routes are flattened into
// this router's tree at build time, prefixed with pattern and wrapped in this
// scope's middleware.
func (m *mux[C]) Mount(pattern string, sub Router[C]) {
	if sub == nil {
		panic(fmt.Errorf("%w on '%s'", ErrNilRouter, pattern))
	}
	sm, ok := sub.(*mux[C])
	if !ok {
		panic(ErrForeignRouter)
	}
	if sm.root == m.root {
		panic(fmt.Errorf("%w: router mounted onto itself at '%s'", ErrMountCycle, pattern))
	}
	if sm.root.reaches(m.root) {
		panic(fmt.Errorf("%w: router at '%s' already mounts this router", ErrMountCycle, pattern))
	}
	if _, err := ParsePattern(pattern); err != nil {
		panic(err)
	}
	m.register(registration[C]{pattern: pattern, sub: sm.root, scope: m})
}

// reaches reports whether target is m or is mounted somewhere below m.
func (m *mux[C]) reaches(target *mux[C]) bool {
	seen := map[*mux[C]]bool{}
	stack := []*mux[C]{m}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true

		cur.mu.Lock()
		for _, reg := range cur.regs {
			if reg.sub != nil {
				stack = append(stack, reg.sub)
			}
		}
		cur.mu.Unlock()
	}
	return false
}

// Routes returns the registered routes in registration order.
func (m *mux[C]) Routes() []Route {
	entries := m.root.collect("", nil, true)
	routes := make([]Route, 0, len(entries))
	for _, e := range entries {
		routes = append(routes, Route{Method: e.method, Pattern: e.pattern})
	}
	return routes
}

func (m *mux[C]) handle(method, pattern string, h handler.HandlerFunc[C]) {
	if h == nil {
		panic(fmt.Errorf("%w: nil handler for %s %s", ErrInvalidPattern, method, pattern))
	}
	if _, err := ParsePattern(pattern); err != nil {
		panic(err)
	}
	m.register(registration[C]{method: method, pattern: pattern, handler: h, scope: m})
}

func (m *mux[C]) register(reg registration[C]) {
	root := m.root
	root.mu.Lock()
	defer root.mu.Unlock()
	if root.built {
		panic(ErrRouterSealed)
	}
	root.regs = append(root.regs, reg)
}

// chain returns the middleware of scope m from the outermost scope inward,
// stopping before (and excluding) the root's own list when skipRoot is set.
func (m *mux[C]) chain(skipRoot bool) []handler.Middleware[C] {
	var scopes []*mux[C]
	for s := m; s != nil; s = s.parent {
		scopes = append(scopes, s)
	}
	var out []handler.Middleware[C]
	for i := len(scopes) - 1; i >= 0; i-- {
		s := scopes[i]
		if skipRoot && s == m.root {
			continue
		}
		out = append(out, s.middlewares...)
	}
	return out
}

// flatEntry is a registration with its mount prefix and middleware resolved.
type flatEntry[C handler.Context] struct {
	method      string
	pattern     string
	middlewares []handler.Middleware[C]
	handler     handler.HandlerFunc[C]
}

// collect flattens the registrations of root router m. outer is the
// middleware of the mounting scope. The top-level router's own middleware is
// left out because the tree runs it around routing.
func (m *mux[C]) collect(prefix string, outer []handler.Middleware[C], top bool) []flatEntry[C] {
	var out []flatEntry[C]
	for _, reg := range m.regs {
		mws := append(append([]handler.Middleware[C](nil), outer...), reg.scope.chain(top)...)
		if reg.sub != nil {
			out = append(out, reg.sub.collect(joinPattern(prefix, reg.pattern), mws, false)...)
			continue
		}
		out = append(out, flatEntry[C]{
			method:      reg.method,
			pattern:     joinPattern(prefix, reg.pattern),
			middlewares: mws,
			handler:     reg.handler,
		})
	}
	return out
}

// Build compiles the registrations into a Tree. Every conflict is reported.
func (m *mux[C]) Build() (*Tree[C], error) {
	root := m.root
	root.mu.Lock()
	defer root.mu.Unlock()
	return root.build()
}

func (m *mux[C]) build() (*Tree[C], error) {
	t := &Tree[C]{
		root:         &node[C]{},
		global:       handler.Chain(m.middlewares...),
		errorHandler: m.errorHandler,
		fallback:     m.fallback,
		newContext:   m.newContext,
		logger:       m.logger,
	}

	var errs []error
	for _, e := range m.collect("", nil, true) {
		p, err := ParsePattern(e.pattern)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ep := &endpoint[C]{
			method:  e.method,
			pattern: p,
			handler: handler.Chain(e.middlewares...)(e.handler),
		}
		if err := t.root.insert(ep); err != nil {
			errs = append(errs, err)
			continue
		}
		t.routes = append(t.routes, Route{Method: e.method, Pattern: p.String()})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	sortRoutes(t.routes)
	return t, nil
}

// ServeHTTP builds the tree on first use and seals the router. A router that
// fails to build answers 500 and logs the build error on every request, to
// slog.Default when no logger was configured. Call Build at startup to fail
// before serving.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	root := m.root
	root.once.Do(func() {
		root.mu.Lock()
		defer root.mu.Unlock()
		root.tree, root.buildErr = root.build()
		root.built = true
	})

	if root.buildErr != nil {
		log := root.logger
		if !root.loggerSet {
			log = slog.Default()
		}
		log.ErrorContext(r.Context(), "router build failed",
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
			logger.Error(root.buildErr),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	root.tree.ServeHTTP(w, r)
}
