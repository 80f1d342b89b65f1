package middleware

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// BodyLimitConfig configures the request body limit.
type BodyLimitConfig struct {
	Skip func(ctx handler.Context) bool
	// MaxSize in bytes (default: 4 MiB).
	MaxSize int64
	// ContentTypeLimit overrides MaxSize per media type.
	ContentTypeLimit map[string]int64
}

const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimit caps request bodies at 4 MiB.
func BodyLimit[C handler.Context]() handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{})
}

func BodyLimitWithSize[C handler.Context](maxSize int64) handler.Middleware[C] {
	return BodyLimitWithConfig[C](BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig rejects requests whose Content-Length exceeds the limit
// with 413 and caps the body of the rest. Handlers reading past the limit get
// an *http.MaxBytesError; returned from the Response it is rendered as 413.
func BodyLimitWithConfig[C handler.Context](cfg BodyLimitConfig) handler.Middleware[C] {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 4 * MB
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			req := ctx.Request()
			limit := cfg.MaxSize
			if len(cfg.ContentTypeLimit) > 0 {
				if mt, _, err := mime.ParseMediaType(req.Header.Get("Content-Type")); err == nil {
					if l, ok := cfg.ContentTypeLimit[mt]; ok {
						limit = l
					}
				}
			}

			if req.ContentLength > limit {
				return response.Error(tooLarge(limit))
			}
			if req.Body != nil && req.Body != http.NoBody {
				req.Body = http.MaxBytesReader(ctx.ResponseWriter(), req.Body, limit)
			}

			resp := next(ctx)
			return func(w http.ResponseWriter, r *http.Request) error {
				err := render(resp, w, r)
				var mbe *http.MaxBytesError
				if errors.As(err, &mbe) {
					return tooLarge(mbe.Limit)
				}
				return err
			}
		}
	}
}

func tooLarge(limit int64) error {
	return response.ErrRequestEntityTooLarge.
		WithMessage("request body too large").
		WithDetails(map[string]any{"limit": strconv.FormatInt(limit, 10)})
}
