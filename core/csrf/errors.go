package csrf

import (
	"errors"
	"net/http"
)

var (
	ErrSecret        = errors.New("failed to generate csrf secret")
	ErrInvalidSecret = errors.New("invalid csrf secret")
)

// ErrInvalidToken is returned when an unsafe request carries a missing or
// wrong token. It renders as 403 Forbidden.
var ErrInvalidToken error = forbidden("invalid csrf token")

type forbidden string

func (e forbidden) Error() string   { return string(e) }
func (e forbidden) StatusCode() int { return http.StatusForbidden }
