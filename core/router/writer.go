package router

import (
	"net/http"
)

// responseWriter records whether the head of the response has been sent so
// the dispatcher never writes a second status line.
type responseWriter struct {
	http.ResponseWriter
	status  int
	size    int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if w.written {
		return
	}
	w.status = status
	w.written = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// Written reports whether the status line has been sent.
func (w *responseWriter) Written() bool { return w.written }

// Status returns the status sent, or 0.
func (w *responseWriter) Status() int { return w.status }

// Size returns the number of body bytes written.
func (w *responseWriter) Size() int { return w.size }

// Flush forwards to the underlying writer when it supports streaming.
func (w *responseWriter) Flush() {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the connection.
func (w *responseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
