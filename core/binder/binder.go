package binder

import (
	"errors"
	"mime"
	"net/http"
	"reflect"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Source names reported in handler.ExtractionError.
const (
	SourceBody  = "body"
	SourceForm  = "form"
	SourceQuery = "query"
	SourceParam = "param"
)

// Query binds the URL query string into T using `query` tags.
func Query[C handler.Context, T any]() handler.Extractor[C, T] {
	return func(ctx C) (T, error) {
		q := ctx.Request().URL.Query()
		var v T
		if err := bindValues(&v, "query", func(name string) []string { return q[name] }); err != nil {
			return v, extractionError(SourceQuery, err)
		}
		return v, nil
	}
}

// Path binds router parameters into T using `param` tags.
func Path[C handler.Context, T any]() handler.Extractor[C, T] {
	return func(ctx C) (T, error) {
		lookup := func(name string) []string {
			if p := ctx.Param(name); p != "" {
				return []string{p}
			}
			return nil
		}

		var v T
		if err := bindValues(&v, "param", lookup); err != nil {
			return v, extractionError(SourceParam, err)
		}
		return v, nil
	}
}

func extractionError(source string, err error) error {
	var fe *fieldError
	name := ""
	if errors.As(err, &fe) {
		name = fe.name
	}
	return &handler.ExtractionError{Source: source, Name: name, Err: err}
}

// mediaType returns the lower-cased media type of the request body.
func mediaType(r *http.Request) (string, map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, ErrMissingContentType
	}
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, ErrUnsupportedMediaType
	}
	return mt, params, nil
}

func structValue(ptr any) (reflect.Value, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, ErrInvalidTarget
	}
	return rv.Elem(), nil
}
