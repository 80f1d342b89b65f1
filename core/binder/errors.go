package binder

import "errors"

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidJSON          = errors.New("invalid JSON body")
	ErrInvalidForm          = errors.New("invalid form data")
	ErrInvalidValue         = errors.New("invalid value")
	// ErrInvalidTarget means T is not a struct; it is a programming error.
	ErrInvalidTarget = errors.New("binder: target must be a struct")
)
