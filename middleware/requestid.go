package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
)

type requestIDKey struct{}

// maxRequestIDLength bounds ids accepted from clients.
const maxRequestIDLength = 128

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Skip func(ctx handler.Context) bool
	// Generator creates ids. Defaults to UUID v4.
	Generator func() string
	// HeaderName defaults to "X-Request-ID".
	HeaderName string
	// TrustIncoming reuses a well-formed id sent by the client.
	TrustIncoming bool
}

// RequestID assigns every request a UUID, stores it in the context and
// echoes it in the X-Request-ID response header.
func RequestID[C handler.Context]() handler.Middleware[C] {
	return RequestIDWithConfig[C](RequestIDConfig{})
}

func RequestIDWithConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var id string
			if cfg.TrustIncoming {
				id = ctx.Request().Header.Get(cfg.HeaderName)
				if !validRequestID(id) {
					id = ""
				}
			}
			if id == "" {
				id = cfg.Generator()
			}

			ctx.SetValue(requestIDKey{}, id)
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, id)
				return render(resp, w, r)
			}
		}
	}
}

// GetRequestID returns the id stored by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}

// RequestIDExtractor adds the request id to log records written with the
// request context. Use it with logger.WithContextExtractors.
func RequestIDExtractor(ctx context.Context) []slog.Attr {
	if id, ok := GetRequestID(ctx); ok {
		return []slog.Attr{logger.RequestID(id)}
	}
	return nil
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if c < 0x21 || c > 0x7e {
			return false
		}
	}
	return true
}
