package response

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/handler"
)

type statusCode interface {
	StatusCode() int
}

type writtenReporter interface {
	Written() bool
}

// AsHTTPError converts any error to an HTTPError. Errors carrying a status
// map to the matching predefined error; server errors never expose the
// underlying message.
func AsHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	var sc statusCode
	if errors.As(err, &sc) {
		status = sc.StatusCode()
	}

	base, ok := httpErrorsByStatus[status]
	if !ok {
		base = statusError(status)
		if base.Message == "" {
			base = ErrInternalServerError
		}
	}
	if base.Status >= http.StatusInternalServerError {
		return base
	}
	return base.WithMessage(err.Error())
}

// ErrorHandler renders errors as plain text.
func ErrorHandler[C handler.Context](ctx C, err error) {
	if alreadyWritten(ctx) {
		return
	}
	httpErr := AsHTTPError(err)
	Render(ctx, StringWithStatus(httpErr.Error(), httpErr.Status))
}

// JSONErrorHandler renders errors as JSON objects.
func JSONErrorHandler[C handler.Context](ctx C, err error) {
	if alreadyWritten(ctx) {
		return
	}
	httpErr := AsHTTPError(err)
	Render(ctx, JSONWithStatus(httpErr, httpErr.Status))
}

func alreadyWritten(ctx handler.Context) bool {
	w, ok := ctx.ResponseWriter().(writtenReporter)
	return ok && w.Written()
}
