package handler

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
)

// PanicError carries a value recovered from a panic together with the stack
// captured at the point of recovery. Error handlers can detect it with errors.As.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

// NewPanicError wraps a recovered value.
func NewPanicError(value any, stack []byte) PanicError {
	return &panicError{value: value, stack: stack}
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) Value() any    { return e.value }
func (e *panicError) Stack() []byte { return e.stack }

// Unwrap exposes the panic value when it is itself an error.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}

// Fallback produces the response served in place of a handler that panicked.
type Fallback[C Context] func(ctx C, perr PanicError) Response

// CatchUnwind isolates inner from the rest of the server. A panic raised while
// inner builds its Response, or while that Response renders, is converted into
// a PanicError and handed to fallback, whose Response is served instead.
//
// A panic raised by fallback itself is not caught here: it unwinds to the
// goroutine serving the connection, which net/http already isolates.
// http.ErrAbortHandler is always re-raised so intentional aborts keep working.
func CatchUnwind[C Context](inner HandlerFunc[C], fallback Fallback[C]) HandlerFunc[C] {
	if fallback == nil {
		fallback = defaultFallback[C]
	}
	return func(ctx C) (resp Response) {
		defer func() {
			if p := recover(); p != nil {
				resp = fallback(ctx, recovered(p))
			}
		}()

		out := inner(ctx)
		if out == nil {
			return nil
		}
		return func(w http.ResponseWriter, r *http.Request) (err error) {
			var perr PanicError
			func() {
				defer func() {
					if p := recover(); p != nil {
						perr = recovered(p)
					}
				}()
				err = out(w, r)
			}()
			if perr == nil {
				return err
			}
			// The fallback is outside the recover above on purpose.
			if fb := fallback(ctx, perr); fb != nil {
				return fb(w, r)
			}
			return perr
		}
	}
}

// recovered converts a recovered value into a PanicError, re-panicking on
// http.ErrAbortHandler.
func recovered(p any) PanicError {
	if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(p)
	}
	return NewPanicError(p, debug.Stack())
}

// defaultFallback returns the panic as an error so the router's error
// handler renders it, typically as a 500.
func defaultFallback[C Context](_ C, perr PanicError) Response {
	return func(http.ResponseWriter, *http.Request) error {
		return perr
	}
}
