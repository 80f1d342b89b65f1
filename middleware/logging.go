package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/logger"
	"github.com/dmitrymomot/dispatch/core/router"
)

// LoggingConfig configures the access log middleware.
type LoggingConfig struct {
	Skip func(ctx handler.Context) bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Level for successful requests. 4xx log at warn, 5xx at error.
	Level slog.Level

	// SlowRequestThreshold logs slower requests at warn level (default: 5s).
	SlowRequestThreshold time.Duration

	// Component is added to every record (default: "http").
	Component string
}

// Logging writes one record per request once the response is rendered.
func Logging[C handler.Context]() handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{})
}

// LoggingWithLogger is Logging with a custom logger.
func LoggingWithLogger[C handler.Context](log *slog.Logger) handler.Middleware[C] {
	return LoggingWithConfig[C](LoggingConfig{Logger: log})
}

func LoggingWithConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			resp := next(ctx)

			return func(w http.ResponseWriter, r *http.Request) error {
				sw := &statusWriter{ResponseWriter: w}
				err := render(resp, sw, r)

				duration := time.Since(start)
				status := sw.statusOf(err)

				attrs := []slog.Attr{
					logger.Component(cfg.Component),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.StatusCode(status),
					logger.BytesOut(sw.size),
					logger.Duration(duration),
				}
				if pattern := router.RoutePattern(r.Context()); pattern != "" {
					attrs = append(attrs, logger.Route(pattern))
				}
				if id, ok := GetRequestID(r.Context()); ok {
					attrs = append(attrs, logger.RequestID(id))
				}
				if ua := r.UserAgent(); ua != "" {
					attrs = append(attrs, logger.UserAgent(ua))
				}

				level := cfg.Level
				switch {
				case status >= http.StatusInternalServerError:
					level = slog.LevelError
					if err != nil {
						attrs = append(attrs, logger.Error(err))
					}
				case status >= http.StatusBadRequest:
					level = slog.LevelWarn
				case duration > cfg.SlowRequestThreshold:
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow_request", true))
				}

				cfg.Logger.LogAttrs(r.Context(), level, "http request", attrs...)
				return err
			}
		}
	}
}
