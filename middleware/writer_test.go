package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/router"
	"github.com/dmitrymomot/dispatch/core/session"
	"github.com/dmitrymomot/dispatch/middleware"
)

func TestNilResponseReachesErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mw   func(t *testing.T) handler.Middleware[ctx]
	}{
		{"cors", func(*testing.T) handler.Middleware[ctx] { return middleware.CORS[ctx]() }},
		{"csrf", func(t *testing.T) handler.Middleware[ctx] {
			return middleware.CSRF[ctx](cookieManager(t), middleware.CSRFConfig{})
		}},
		{"session", func(t *testing.T) handler.Middleware[ctx] {
			m := session.NewManager(session.NewMemoryStore[visits](), session.Config{TTL: time.Hour})
			return middleware.Session[ctx](m, cookieManager(t), middleware.SessionConfig{})
		}},
		{"request id", func(*testing.T) handler.Middleware[ctx] { return middleware.RequestID[ctx]() }},
		{"security headers", func(*testing.T) handler.Middleware[ctx] { return middleware.SecurityHeaders[ctx]() }},
		{"body limit", func(*testing.T) handler.Middleware[ctx] { return middleware.BodyLimit[ctx]() }},
		{"logging", func(*testing.T) handler.Middleware[ctx] { return middleware.LoggingWithLogger[ctx](logger.Nop()) }},
		{"tracing", func(*testing.T) handler.Middleware[ctx] { return middleware.Tracing[ctx]() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got error
			r := router.New(router.WithErrorHandler(func(c ctx, err error) {
				got = err
				c.ResponseWriter().WriteHeader(http.StatusInternalServerError)
			}))
			r.Use(tt.mw(t))
			r.Get("/nil", func(ctx) handler.Response { return nil })

			req := httptest.NewRequest(http.MethodGet, "/nil", nil)
			req.Header.Set("Origin", "https://app.example.com")
			rec := do(r, req)

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.ErrorIs(t, got, router.ErrNilResponse)
		})
	}
}
