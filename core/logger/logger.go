package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type config struct {
	level      slog.Level
	json       bool
	color      bool
	output     io.Writer
	attrs      []slog.Attr
	extractors []ContextExtractor
}

// Option configures New.
type Option func(*config)

// ContextExtractor derives attributes from a record's context, e.g. the
// request id stored by middleware.
type ContextExtractor func(ctx context.Context) []slog.Attr

// WithLevel sets the minimum level.
func WithLevel(level slog.Level) Option {
	return func(c *config) { c.level = level }
}

// WithJSONFormatter switches to JSON output.
func WithJSONFormatter() Option {
	return func(c *config) { c.json = true }
}

// WithOutput sets the destination. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr adds attributes to every record.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) { c.attrs = append(c.attrs, attrs...) }
}

// WithContextValue logs the context value under key as name.
func WithContextValue(name string, key any) Option {
	return WithContextExtractors(func(ctx context.Context) []slog.Attr {
		if v := ctx.Value(key); v != nil {
			return []slog.Attr{slog.Any(name, v)}
		}
		return nil
	})
}

// WithContextExtractors adds extractors run for every record.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, extractors...) }
}

// WithDevelopment configures colourised, human readable debug output.
func WithDevelopment(service string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.json = false
		c.color = true
		c.attrs = append(c.attrs, slog.String("service", service))
	}
}

// WithProduction configures JSON output at info level.
func WithProduction(service string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		c.color = false
		c.attrs = append(c.attrs, slog.String("service", service))
	}
}

// New builds a slog.Logger.
func New(opts ...Option) *slog.Logger {
	cfg := &config{level: slog.LevelInfo, output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	var h slog.Handler
	switch {
	case cfg.json:
		h = slog.NewJSONHandler(cfg.output, &slog.HandlerOptions{Level: cfg.level})
	case cfg.color:
		h = tint.NewHandler(cfg.output, &tint.Options{Level: cfg.level, TimeFormat: time.Kitchen})
	default:
		h = slog.NewTextHandler(cfg.output, &slog.HandlerOptions{Level: cfg.level})
	}
	if len(cfg.extractors) > 0 {
		h = &contextHandler{Handler: h, extractors: cfg.extractors}
	}
	if len(cfg.attrs) > 0 {
		h = h.WithAttrs(cfg.attrs)
	}
	return slog.New(h)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type contextHandler struct {
	slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		for _, extract := range h.extractors {
			r.AddAttrs(extract(ctx)...)
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), extractors: h.extractors}
}
