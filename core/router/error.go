package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
)

var (
	// Dispatch errors
	ErrNotFound         error = &statusError{msg: "not found", code: http.StatusNotFound}
	ErrMethodNotAllowed error = &statusError{msg: "method not allowed", code: http.StatusMethodNotAllowed}
	ErrNilResponse            = errors.New("nil response")

	// Registration errors
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrInvalidMethod    = errors.New("invalid http method")
	ErrNilRouter        = errors.New("nil router")
	ErrNilSubrouter     = errors.New("nil subrouter")
	ErrForeignRouter    = errors.New("can only mount routers created by router.New")
	ErrRouterSealed     = errors.New("router is already serving; register routes before the first request")
	ErrLateMiddleware   = errors.New("all middlewares must be defined before routes on a router")
	ErrMountCycle       = errors.New("mount would create a cycle")

	// Pattern errors
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrWildcardPosition = errors.New("wildcard position must be last")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
)

type statusError struct {
	msg  string
	code int
}

func (e *statusError) Error() string   { return e.msg }
func (e *statusError) StatusCode() int { return e.code }

// RouteConflictError reports two registrations that cannot coexist in one tree.
type RouteConflictError struct {
	Method   string
	Pattern  string
	Existing string
	Reason   string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route conflict: %s %s collides with %s: %s", e.Method, e.Pattern, e.Existing, e.Reason)
}

// MethodNotAllowedError is returned by Lookup when the path exists but no
// route serves the method. Allowed is sorted.
type MethodNotAllowedError struct {
	Method  string
	Allowed []string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed, allowed: %s", e.Method, strings.Join(e.Allowed, ", "))
}

func (e *MethodNotAllowedError) Is(target error) bool { return target == ErrMethodNotAllowed }
func (e *MethodNotAllowedError) StatusCode() int      { return http.StatusMethodNotAllowed }

// statusCode is implemented by errors that carry their own HTTP status.
type statusCode interface {
	StatusCode() int
}

// defaultErrorHandler writes err as plain text. Client errors expose their
// message; server errors only their status text.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(*responseWriter); ok && ww.Written() {
		return
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}

// PanicError is re-exported for error handlers that only import router.
type PanicError = handler.PanicError
