package response

import (
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Error returns a Response that hands err to the router's error handler.
func Error(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}
