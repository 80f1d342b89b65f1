// Package logger builds slog loggers and provides attribute helpers with
// consistent keys.
//
//	log := logger.New(
//		logger.WithDevelopment("dispatchd"),
//		logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "request completed",
//		logger.Method(r.Method),
//		logger.Route(pattern),
//		logger.StatusCode(status),
//		logger.Duration(elapsed),
//	)
//
// Development mode writes colourised text through tint; production mode
// writes JSON. Attribute helpers return an empty slog.Attr for zero inputs,
// which slog omits.
package logger
