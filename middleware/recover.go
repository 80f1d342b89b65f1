package middleware

import (
	"log/slog"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/response"
)

// RecoverConfig configures the Recover middleware.
type RecoverConfig struct {
	// Logger receives one error record per recovered panic (default: slog.Default()).
	Logger *slog.Logger
	// Response renders the fallback. Defaults to a 500 through the error handler.
	Response func(err handler.PanicError) handler.Response
}

// Recover isolates panics raised by the handlers it wraps, including panics
// during response rendering, and replaces them with a fallback response.
// The router already recovers at the request boundary; Recover lets a scope
// pick its own fallback and logging.
func Recover[C handler.Context]() handler.Middleware[C] {
	return RecoverWithConfig[C](RecoverConfig{})
}

func RecoverWithConfig[C handler.Context](cfg RecoverConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Response == nil {
		cfg.Response = func(err handler.PanicError) handler.Response {
			return response.Error(response.ErrInternalServerError.WithError(err))
		}
	}

	fallback := func(ctx C, perr handler.PanicError) handler.Response {
		req := ctx.Request()
		cfg.Logger.LogAttrs(req.Context(), slog.LevelError, "recovered from panic",
			logger.Panic(perr.Value()),
			logger.Stack(perr.Stack()),
			logger.Method(req.Method),
			logger.Path(req.URL.Path),
		)
		return cfg.Response(perr)
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return handler.CatchUnwind(next, fallback)
	}
}
