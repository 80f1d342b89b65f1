package binder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// DefaultMaxJSONSize caps JSON bodies when no BodyLimit middleware is installed.
const DefaultMaxJSONSize = 1 << 20

// JSON decodes an application/json body into T. Unknown fields, trailing data
// and an empty body are rejected.
func JSON[C handler.Context, T any]() handler.Extractor[C, T] {
	return func(ctx C) (T, error) {
		var v T
		if err := decodeJSON(ctx, &v); err != nil {
			return v, &handler.ExtractionError{Source: SourceBody, Name: "json", Err: err}
		}
		return v, nil
	}
}

func decodeJSON(ctx handler.Context, v any) error {
	r := ctx.Request()
	mt, _, err := mediaType(r)
	if err != nil {
		return err
	}
	if mt != "application/json" {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxJSONSize+1))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if len(body) > DefaultMaxJSONSize {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidJSON, DefaultMaxJSONSize)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", ErrInvalidJSON)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}
	return nil
}
