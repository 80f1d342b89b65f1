package middleware

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/router"
)

// render runs resp. A nil response becomes router.ErrNilResponse so it reaches
// the error handler like it does without middleware.
func render(resp handler.Response, w http.ResponseWriter, r *http.Request) error {
	if resp == nil {
		return router.ErrNilResponse
	}
	return resp(w, r)
}

// statusWriter records the status and size of a response. beforeHeader, if
// set, runs once just before the head of the response is sent.
type statusWriter struct {
	http.ResponseWriter
	status       int
	size         int64
	written      bool
	beforeHeader func(http.ResponseWriter)
}

func (w *statusWriter) fire() {
	if fn := w.beforeHeader; fn != nil {
		w.beforeHeader = nil
		fn(w.ResponseWriter)
	}
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.fire()
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += int64(n)
	return n, err
}

func (w *statusWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// statusOf returns the status a response ended with: the written one, or the
// one the error handler will derive from err.
func (w *statusWriter) statusOf(err error) int {
	if w.written {
		return w.status
	}
	if err != nil {
		var sc interface{ StatusCode() int }
		if errors.As(err, &sc) {
			return sc.StatusCode()
		}
		return http.StatusInternalServerError
	}
	return http.StatusOK
}
