package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// WithHeaders sets headers before resp renders.
func WithHeaders(resp handler.Response, headers map[string]string) handler.Response {
	if resp == nil || len(headers) == 0 {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return resp(w, r)
	}
}

// WithCookie sets cookie before resp renders.
func WithCookie(resp handler.Response, cookie *http.Cookie) handler.Response {
	if resp == nil || cookie == nil {
		return resp
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.SetCookie(w, cookie)
		return resp(w, r)
	}
}

// WithCache sets caching headers. A positive maxAge allows public caching;
// anything else forbids caching.
func WithCache(resp handler.Response, maxAge time.Duration) handler.Response {
	if resp == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		h := w.Header()
		if maxAge > 0 {
			h.Set("Cache-Control", "public, max-age="+strconv.Itoa(int(maxAge.Seconds())))
			h.Set("Expires", time.Now().Add(maxAge).UTC().Format(http.TimeFormat))
		} else {
			h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}
		return resp(w, r)
	}
}
