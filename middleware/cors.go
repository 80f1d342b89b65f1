package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// CORSConfig defines the Cross-Origin Resource Sharing policy. The slice and
// scalar fields can be loaded from the environment with config.Load.
type CORSConfig struct {
	Skip func(ctx handler.Context) bool

	// AllowOrigins lists allowed origins. Empty or "*" allows any origin.
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`

	// AllowMethods defaults to GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []string `env:"CORS_ALLOW_METHODS" envSeparator:","`

	// AllowHeaders lists request headers a preflight may ask for. Matching is
	// case-insensitive. Defaults to common headers including Content-Type,
	// Authorization and X-CSRF-Token.
	AllowHeaders []string `env:"CORS_ALLOW_HEADERS" envSeparator:","`

	ExposeHeaders []string `env:"CORS_EXPOSE_HEADERS" envSeparator:","`

	// AllowCredentials is never sent together with a wildcard origin.
	AllowCredentials bool `env:"CORS_ALLOW_CREDENTIALS"`

	// MaxAge caches preflight results, in seconds.
	MaxAge int `env:"CORS_MAX_AGE"`

	// AllowOriginFunc overrides AllowOrigins. It returns the value for
	// Access-Control-Allow-Origin and whether the origin is allowed.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS allows any origin with the default methods and headers.
// Use CORSWithConfig with explicit origins in production.
func CORS[C handler.Context]() handler.Middleware[C] {
	return CORSWithConfig[C](CORSConfig{})
}

// CORSWithConfig answers preflight requests itself: 204 with the policy
// headers when origin, method and every requested header are allowed, 403
// otherwise. Requests without an Origin header pass through untouched. For
// other cross-origin requests the handler runs and the Allow-Origin family of
// headers is added to its response.
//
// Install it with Use on the root router: root middleware also wraps requests
// that match no route, so OPTIONS preflights work without OPTIONS routes.
//
//	r.Use(middleware.CORSWithConfig[*router.Context](middleware.CORSConfig{
//		AllowOrigins:     []string{"https://app.example.com"},
//		AllowCredentials: true,
//		MaxAge:           86400,
//	}))
func CORSWithConfig[C handler.Context](cfg CORSConfig) handler.Middleware[C] {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Authorization",
			"X-Request-ID",
			"X-CSRF-Token",
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")

	allowedHeaders := make(map[string]bool, len(cfg.AllowHeaders))
	for _, h := range cfg.AllowHeaders {
		allowedHeaders[http.CanonicalHeaderKey(strings.TrimSpace(h))] = true
	}
	allowOrigins := make(map[string]bool, len(cfg.AllowOrigins))
	for _, o := range cfg.AllowOrigins {
		allowOrigins[o] = true
	}
	anyOrigin := len(cfg.AllowOrigins) == 0 || allowOrigins["*"]

	resolveOrigin := func(origin string) (string, bool) {
		switch {
		case cfg.AllowOriginFunc != nil:
			return cfg.AllowOriginFunc(origin)
		case anyOrigin:
			return "*", true
		case allowOrigins[origin]:
			return origin, true
		}
		return "", false
	}

	headersAllowed := func(requested string) bool {
		for h := range strings.SplitSeq(requested, ",") {
			h = strings.TrimSpace(h)
			if h != "" && !allowedHeaders[http.CanonicalHeaderKey(h)] {
				return false
			}
		}
		return true
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			origin := req.Header.Get("Origin")
			if origin == "" {
				return next(ctx)
			}
			allowedOrigin, allowed := resolveOrigin(origin)

			requestMethod := req.Header.Get("Access-Control-Request-Method")
			if req.Method == http.MethodOptions && requestMethod != "" {
				requestHeaders := req.Header.Get("Access-Control-Request-Headers")

				if !allowed || !slices.Contains(cfg.AllowMethods, requestMethod) || !headersAllowed(requestHeaders) {
					return func(w http.ResponseWriter, _ *http.Request) error {
						w.Header().Add("Vary", "Origin")
						w.WriteHeader(http.StatusForbidden)
						return nil
					}
				}

				return func(w http.ResponseWriter, _ *http.Request) error {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", allowedOrigin)
					h.Set("Access-Control-Allow-Methods", allowMethods)
					if requestHeaders != "" {
						h.Set("Access-Control-Allow-Headers", allowHeaders)
					}
					if cfg.AllowCredentials && allowedOrigin != "*" {
						h.Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						h.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
					h.Add("Vary", "Origin")
					h.Add("Vary", "Access-Control-Request-Method")
					h.Add("Vary", "Access-Control-Request-Headers")
					w.WriteHeader(http.StatusNoContent)
					return nil
				}
			}

			resp := next(ctx)
			if !allowed {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowedOrigin)
				if cfg.AllowCredentials && allowedOrigin != "*" {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeaders != "" {
					h.Set("Access-Control-Expose-Headers", exposeHeaders)
				}
				h.Add("Vary", "Origin")
				return render(resp, w, r)
			}
		}
	}
}

// AllowOriginWildcard allows every non-empty origin and echoes it back, which
// unlike "*" can be combined with credentials.
func AllowOriginWildcard() func(origin string) (string, bool) {
	return func(origin string) (string, bool) {
		return origin, origin != ""
	}
}

// AllowOriginSubdomain allows domain and its subdomains on any scheme or port.
func AllowOriginSubdomain(domain string) func(origin string) (string, bool) {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(domain, "*."), "."))
	suffix := "." + domain

	return func(origin string) (string, bool) {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return "", false
		}
		host := strings.ToLower(u.Hostname())
		if host == domain || strings.HasSuffix(host, suffix) {
			return origin, true
		}
		return "", false
	}
}
