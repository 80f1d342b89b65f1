package response

import (
	"net/http"
	"strings"
)

// HTTPError is a structured error response. It satisfies the StatusCode
// contract understood by the router and middleware.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// NewHTTPError creates a 500 error with a custom message.
func NewHTTPError(message string) HTTPError {
	return ErrInternalServerError.WithMessage(message)
}

func (e HTTPError) Error() string   { return e.Message }
func (e HTTPError) StatusCode() int { return e.Status }

// WithMessage returns a copy with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy with additional details.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// WithError returns a copy recording err as the cause.
// The details map is copied so predefined errors are never mutated.
func (e HTTPError) WithError(err error) HTTPError {
	if err == nil {
		return e
	}
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["cause"] = err.Error()
	e.Details = details
	return e
}

// statusError derives code and message from the status text,
// e.g. 404 becomes "not_found" / "Not Found".
func statusError(status int) HTTPError {
	text := http.StatusText(status)
	code := strings.ToLower(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
	return HTTPError{Status: status, Code: code, Message: text}
}

// Predefined HTTP errors.
var (
	// 4xx Client Errors
	ErrBadRequest                  = statusError(http.StatusBadRequest)
	ErrUnauthorized                = statusError(http.StatusUnauthorized)
	ErrForbidden                   = statusError(http.StatusForbidden)
	ErrNotFound                    = statusError(http.StatusNotFound)
	ErrMethodNotAllowed            = statusError(http.StatusMethodNotAllowed)
	ErrNotAcceptable               = statusError(http.StatusNotAcceptable)
	ErrRequestTimeout              = statusError(http.StatusRequestTimeout)
	ErrConflict                    = statusError(http.StatusConflict)
	ErrGone                        = statusError(http.StatusGone)
	ErrPreconditionFailed          = statusError(http.StatusPreconditionFailed)
	ErrRequestEntityTooLarge       = statusError(http.StatusRequestEntityTooLarge)
	ErrUnsupportedMediaType        = statusError(http.StatusUnsupportedMediaType)
	ErrUnprocessableEntity         = statusError(http.StatusUnprocessableEntity)
	ErrTooManyRequests             = statusError(http.StatusTooManyRequests)
	ErrRequestHeaderFieldsTooLarge = statusError(http.StatusRequestHeaderFieldsTooLarge)
	ErrUnavailableForLegalReasons  = statusError(http.StatusUnavailableForLegalReasons)

	// 5xx Server Errors
	ErrInternalServerError = statusError(http.StatusInternalServerError)
	ErrNotImplemented      = statusError(http.StatusNotImplemented)
	ErrBadGateway          = statusError(http.StatusBadGateway)
	ErrServiceUnavailable  = statusError(http.StatusServiceUnavailable)
	ErrGatewayTimeout      = statusError(http.StatusGatewayTimeout)
)

var httpErrorsByStatus = func() map[int]HTTPError {
	m := make(map[int]HTTPError)
	for _, e := range []HTTPError{
		ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrMethodNotAllowed,
		ErrNotAcceptable, ErrRequestTimeout, ErrConflict, ErrGone, ErrPreconditionFailed,
		ErrRequestEntityTooLarge, ErrUnsupportedMediaType, ErrUnprocessableEntity,
		ErrTooManyRequests, ErrRequestHeaderFieldsTooLarge, ErrUnavailableForLegalReasons,
		ErrInternalServerError, ErrNotImplemented, ErrBadGateway, ErrServiceUnavailable,
		ErrGatewayTimeout,
	} {
		m[e.Status] = e
	}
	return m
}()
