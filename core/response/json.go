package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// JSON creates an application/json response with 200 OK status.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus creates an application/json response with a custom status.
// A zero status means 200, or 204 when v is nil.
func JSONWithStatus(v any, status int) handler.Response {
	if status == 0 {
		status = http.StatusOK
		if v == nil {
			status = http.StatusNoContent
		}
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("Content-Type", contentTypeJSON)
		w.WriteHeader(status)
		if !bodyAllowed(status) {
			return nil
		}
		return json.NewEncoder(w).Encode(v)
	}
}
