package response

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

const (
	contentTypeText = "text/plain; charset=utf-8"
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

// Render writes resp for ctx outside of the router, falling back to a plain
// 500 if it fails before anything was sent.
func Render(ctx handler.Context, resp handler.Response) {
	if resp == nil {
		return
	}
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}

// String creates a text/plain response with 200 OK status.
func String(content string) handler.Response {
	return body(contentTypeText, http.StatusOK, []byte(content))
}

// StringWithStatus creates a text/plain response with a custom status code.
func StringWithStatus(content string, status int) handler.Response {
	return body(contentTypeText, status, []byte(content))
}

// HTML creates a text/html response with 200 OK status.
func HTML(content string) handler.Response {
	return body(contentTypeHTML, http.StatusOK, []byte(content))
}

// HTMLWithStatus creates a text/html response with a custom status code.
func HTMLWithStatus(content string, status int) handler.Response {
	return body(contentTypeHTML, status, []byte(content))
}

// Bytes creates a response with a custom content type and 200 OK status.
func Bytes(content []byte, contentType string) handler.Response {
	return body(contentType, http.StatusOK, content)
}

// BytesWithStatus creates a response with a custom content type and status code.
func BytesWithStatus(content []byte, contentType string, status int) handler.Response {
	return body(contentType, status, content)
}

// NoContent creates a 204 No Content response.
func NoContent() handler.Response {
	return Status(http.StatusNoContent)
}

// Status creates an empty response with the given status code.
func Status(code int) handler.Response {
	return body("", code, nil)
}

func body(contentType string, status int, content []byte) handler.Response {
	if status == 0 {
		status = http.StatusOK
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		if len(content) == 0 || !bodyAllowed(status) {
			return nil
		}
		_, err := w.Write(content)
		return err
	}
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status < 200:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
