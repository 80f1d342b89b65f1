package handler

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingValue is returned by extractors when the requested input is absent.
var ErrMissingValue = errors.New("missing value")

// ExtractionError reports that typed input could not be derived from a request.
// It renders as 400 Bad Request through the error handler.
type ExtractionError struct {
	Source string // header, cookie, query, param, value
	Name   string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s %q: %v", e.Source, e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// StatusCode implements the status code contract used by error handlers.
func (e *ExtractionError) StatusCode() int { return http.StatusBadRequest }

// Extractor derives a typed value from the request context.
type Extractor[C Context, T any] func(ctx C) (T, error)

// Handle adapts a handler taking an extracted value into a HandlerFunc.
// If extraction fails the handler is not called and the error is returned
// from the Response so the router's error handler renders it.
func Handle[C Context, T any](extract Extractor[C, T], fn func(ctx C, v T) Response) HandlerFunc[C] {
	return func(ctx C) Response {
		v, err := extract(ctx)
		if err != nil {
			return errorResponse(err)
		}
		return fn(ctx, v)
	}
}

// Header extracts a required request header.
func Header[C Context](name string) Extractor[C, string] {
	return func(ctx C) (string, error) {
		v := ctx.Request().Header.Get(name)
		if v == "" {
			return "", &ExtractionError{Source: "header", Name: name, Err: ErrMissingValue}
		}
		return v, nil
	}
}

// Cookie extracts a required request cookie value.
func Cookie[C Context](name string) Extractor[C, string] {
	return func(ctx C) (string, error) {
		c, err := ctx.Request().Cookie(name)
		if err != nil || c.Value == "" {
			return "", &ExtractionError{Source: "cookie", Name: name, Err: ErrMissingValue}
		}
		return c.Value, nil
	}
}

// Query extracts a required query string parameter.
func Query[C Context](name string) Extractor[C, string] {
	return func(ctx C) (string, error) {
		v := ctx.Request().URL.Query().Get(name)
		if v == "" {
			return "", &ExtractionError{Source: "query", Name: name, Err: ErrMissingValue}
		}
		return v, nil
	}
}

// PathParam extracts a path parameter captured by the router.
func PathParam[C Context](name string) Extractor[C, string] {
	return func(ctx C) (string, error) {
		v := ctx.Param(name)
		if v == "" {
			return "", &ExtractionError{Source: "param", Name: name, Err: ErrMissingValue}
		}
		return v, nil
	}
}

// ValueOf extracts a value that a middleware stored under key with SetValue.
func ValueOf[T any, C Context](key any) Extractor[C, T] {
	return func(ctx C) (T, error) {
		v, ok := ctx.Value(key).(T)
		if !ok {
			var zero T
			return zero, &ExtractionError{Source: "value", Name: keyName(key), Err: ErrMissingValue}
		}
		return v, nil
	}
}

func keyName(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprintf("%T", key)
}

func errorResponse(err error) Response {
	return func(http.ResponseWriter, *http.Request) error { return err }
}
