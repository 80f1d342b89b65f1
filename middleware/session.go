package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
	"github.com/dmitrymomot/dispatch/core/session"
)

type sessionKey[Data any] struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	Skip func(ctx handler.Context) bool
	// Logger receives commit failures that happen after the response head
	// was sent (default: slog.Default()).
	Logger *slog.Logger
}

// Session loads the visitor's session before the handler runs and commits it
// right before the response head is written, so the id cookie can still be
// set. The id travels in a signed cookie named by the manager's config.
func Session[C handler.Context, Data any](m *session.Manager[Data], cookies *cookie.Manager, cfg SessionConfig) handler.Middleware[C] {
	if m == nil || cookies == nil {
		panic("middleware: Session requires a session manager and a cookie manager")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	name := m.Config().CookieName
	maxAge := int(m.Config().TTL.Seconds())

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			id, _ := cookies.GetSigned(ctx.Request(), name)
			sess, err := m.Load(ctx, id)
			if err != nil {
				return response.Error(err)
			}
			ctx.SetValue(sessionKey[Data]{}, sess)

			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				var commitErr error
				sw := &statusWriter{ResponseWriter: w}
				sw.beforeHeader = func(w http.ResponseWriter) {
					out, err := m.Commit(r.Context(), sess)
					if err != nil {
						commitErr = err
						return
					}
					switch {
					case out.Remove:
						cookies.Delete(w, name)
					case out.Write:
						commitErr = cookies.SetSigned(w, name, out.ID, cookie.WithMaxAge(maxAge))
					}
				}

				err := render(resp, sw, r)
				sw.fire()

				if commitErr != nil {
					if sw.written || err != nil {
						cfg.Logger.ErrorContext(r.Context(), "session commit failed", logger.Error(commitErr))
					} else {
						return commitErr
					}
				}
				return err
			}
		}
	}
}

// GetSession returns the session loaded by the Session middleware.
func GetSession[Data any](ctx context.Context) (*session.Session[Data], bool) {
	s, ok := ctx.Value(sessionKey[Data]{}).(*session.Session[Data])
	return s, ok
}
