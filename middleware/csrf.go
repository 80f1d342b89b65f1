package middleware

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/csrf"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

type csrfTokenKey struct{}

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	csrf.Config

	Skip func(ctx handler.Context) bool

	// Binding ties tokens to request state such as the session id. It must
	// return the same value on the request that rendered the token and on
	// the request that submits it.
	Binding func(r *http.Request) string
}

// CSRF protects unsafe methods with the double-submit pattern. The per-client
// secret is kept in a signed cookie issued on first contact. Every request
// gets a fresh token, available through CSRFToken, for embedding in forms or
// headers. Requests with a method outside the safe list must carry a valid
// token in the configured header or form field or they fail with 403 and the
// handler is not called.
func CSRF[C handler.Context](cookies *cookie.Manager, cfg CSRFConfig) handler.Middleware[C] {
	if cookies == nil {
		panic("middleware: CSRF requires a cookie manager")
	}
	cfg.Config = cfg.Config.WithDefaults()
	maxAge := int(cfg.CookieMaxAge.Seconds())

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			binding := ""
			if cfg.Binding != nil {
				binding = cfg.Binding(req)
			}

			var secret []byte
			fresh := false
			if raw, err := cookies.GetSigned(req, cfg.CookieName); err == nil {
				secret, _ = csrf.DecodeSecret(raw)
			}
			if secret == nil {
				s, err := csrf.Secret()
				if err != nil {
					return response.Error(err)
				}
				secret, fresh = s, true
			}

			if !cfg.IsSafe(req.Method) {
				token := req.Header.Get(cfg.HeaderName)
				if token == "" {
					token = req.PostFormValue(cfg.FormField)
				}
				if fresh || !csrf.Verify(secret, token, binding) {
					return response.Error(csrf.ErrInvalidToken)
				}
			}

			ctx.SetValue(csrfTokenKey{}, csrf.Generate(secret, binding))
			resp := next(ctx)
			if !fresh {
				return resp
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				if err := cookies.SetSigned(w, cfg.CookieName, csrf.EncodeSecret(secret), cookie.WithMaxAge(maxAge)); err != nil {
					return err
				}
				return render(resp, w, r)
			}
		}
	}
}

// CSRFToken returns the token issued for the current request.
func CSRFToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(csrfTokenKey{}).(string)
	return token, ok
}
