package binder

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// DefaultMaxMemory is the multipart memory budget; larger parts spill to disk.
const DefaultMaxMemory = 10 << 20

var fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()

// Form binds an application/x-www-form-urlencoded or multipart/form-data body
// into T. Values bind by `form` tag. Uploaded files bind by `file` tag into
// *multipart.FileHeader or []*multipart.FileHeader fields, with client paths
// stripped from their names. Untagged fields are left alone.
func Form[C handler.Context, T any]() handler.Extractor[C, T] {
	return func(ctx C) (T, error) {
		var v T
		if err := decodeForm(ctx, &v); err != nil {
			return v, extractionError(SourceForm, err)
		}
		return v, nil
	}
}

func decodeForm(ctx handler.Context, ptr any) error {
	r := ctx.Request()
	mt, params, err := mediaType(r)
	if err != nil {
		return err
	}

	var (
		values map[string][]string
		files  map[string][]*multipart.FileHeader
	)
	switch mt {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidForm, err)
		}
		values = r.PostForm
	case "multipart/form-data":
		if params["boundary"] == "" {
			return fmt.Errorf("%w: missing boundary", ErrInvalidForm)
		}
		if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidForm, err)
		}
		values = r.MultipartForm.Value
		files = r.MultipartForm.File
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}

	rv, err := structValue(ptr)
	if err != nil {
		return err
	}
	rt := rv.Type()
	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if name := tagName(sf, "form"); name != "" {
			if vals := values[name]; len(vals) > 0 {
				if err := setField(field, vals); err != nil {
					return &fieldError{name: name, err: err}
				}
			}
		}
		if name := tagName(sf, "file"); name != "" {
			if fhs := files[name]; len(fhs) > 0 {
				if err := setFiles(field, fhs); err != nil {
					return &fieldError{name: name, err: err}
				}
			}
		}
	}
	return nil
}

// tagName returns the key of an explicit tag, or "" when absent or "-".
func tagName(sf reflect.StructField, tag string) string {
	name, _, _ := strings.Cut(sf.Tag.Get(tag), ",")
	if name == "-" {
		return ""
	}
	return name
}

func setFiles(field reflect.Value, fhs []*multipart.FileHeader) error {
	for _, fh := range fhs {
		fh.Filename = safeFilename(fh.Filename)
	}

	switch {
	case field.Type() == fileHeaderType:
		field.Set(reflect.ValueOf(fhs[0]))
	case field.Kind() == reflect.Slice && field.Type().Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(fhs))
	default:
		return fmt.Errorf("%w: file field must be *multipart.FileHeader or a slice of them", ErrInvalidValue)
	}
	return nil
}

func safeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(filepath.Base(name), "\x00", "")
	switch name {
	case "", ".", "..", "/":
		return "unnamed"
	}
	return name
}
