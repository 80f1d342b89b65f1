package health

import (
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/response"
)

// Liveness answers "ALIVE" as long as the process serves requests.
func Liveness[C handler.Context](C) handler.Response {
	return response.String("ALIVE")
}
