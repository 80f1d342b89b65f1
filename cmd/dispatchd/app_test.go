package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/cookie"
	"github.com/dmitrymomot/dispatch/core/csrf"
	"github.com/dmitrymomot/dispatch/core/health"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/router"
	"github.com/dmitrymomot/dispatch/core/session"
	"github.com/dmitrymomot/dispatch/middleware"
)

func testDeps(t *testing.T, checks ...health.Check) deps {
	t.Helper()

	cookies, err := cookie.New([]string{strings.Repeat("k", 32)})
	require.NoError(t, err)

	return deps{
		cfg: AppConfig{
			AppName: "test",
			Session: session.DefaultConfig(),
			CSRF:    csrf.DefaultConfig(),
			CORS:    middleware.CORSConfig{AllowOrigins: []string{"https://app.example.com"}},
		},
		log:      logger.Nop(),
		cookies:  cookies,
		sessions: session.NewManager[Visits](session.NewMemoryStore[Visits](), session.DefaultConfig()),
		checks:   checks,
		tick:     time.Millisecond,
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestGreeting(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, World!", rec.Body.String())

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/alice", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, alice!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = serve(r, httptest.NewRequest(http.MethodPost, "/alice", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCounter(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/counter", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())
	sid := cookieNamed(rec, "sid")
	require.NotNil(t, sid)

	req := httptest.NewRequest(http.MethodGet, "/counter", nil)
	req.AddCookie(sid)
	rec = serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())

	// A fresh visitor starts over.
	rec = serve(r, httptest.NewRequest(http.MethodGet, "/counter", nil))
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())
}

func TestCSRFForm(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/csrf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)
	secret := cookieNamed(rec, "_csrf")
	require.NotNil(t, secret)

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/csrf", nil)
		req.AddCookie(secret)
		assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	})

	t.Run("header token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/csrf", nil)
		req.AddCookie(secret)
		req.Header.Set("X-CSRF-Token", token)
		rec := serve(r, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "CSRF Protection!", rec.Body.String())
	})

	t.Run("form token", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/csrf", strings.NewReader("_csrf="+token))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(secret)
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})

	t.Run("token without cookie", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/csrf", nil)
		req.Header.Set("X-CSRF-Token", token)
		assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	})
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	req := httptest.NewRequest(http.MethodOptions, "/alice", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := serve(r, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/alice", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
}

func TestEvents(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/events?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "retry:3000\n")
	assert.Equal(t, 2, strings.Count(body, "event:tick\n"))
	assert.Contains(t, body, "id:1\n")
	assert.Contains(t, body, "id:2\n")
	assert.NotContains(t, body, "id:3\n")
}

func TestEventsStopOnDisconnect(t *testing.T) {
	t.Parallel()
	d := testDeps(t)
	d.tick = time.Hour
	r := newRouter(d)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		serve(r, req)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop after the client went away")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	r := newRouter(testDeps(t))
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/live", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)

	down := health.Check{Name: "redis", Probe: func(context.Context) error { return errors.New("down") }}
	r = newRouter(testDeps(t, down))
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"redis":"unavailable"}`, rec.Body.String())
}

func TestRouteTable(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var routes []router.Route
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &routes))
	assert.Contains(t, routes, router.Route{Method: http.MethodPost, Pattern: "/csrf"})
	assert.Contains(t, routes, router.Route{Method: http.MethodGet, Pattern: "/api/routes"})

	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, r.Routes()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "METHOD"))
	assert.Contains(t, out, "/:username")
	assert.Contains(t, out, "/events")
}

func TestTreeBuilds(t *testing.T) {
	t.Parallel()
	_, err := newRouter(testDeps(t)).Build()
	require.NoError(t, err)
}

func TestGreetJSON(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/greet", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return serve(r, req)
	}

	rec := post(`{"name":"bob"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"greeting":"Hello, bob!"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnprocessableEntity, post(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"name":1}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"nick":"bob"}`).Code)
}

func TestEventsBadLimit(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/events?limit=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaticAssets(t *testing.T) {
	t.Parallel()
	r := newRouter(testDeps(t))

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/static/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>dispatchd</h1>")

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "EventSource")

	assert.Equal(t, http.StatusNotFound, serve(r, httptest.NewRequest(http.MethodGet, "/static/nope.css", nil)).Code)
}
