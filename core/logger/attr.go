package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for zero inputs, so calls like
// log.Info("msg", logger.Error(err)) need no nil checks. slog drops empty Attrs.

// Group creates a group of attributes under a single key.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID records the request correlation id.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// TraceID records a distributed tracing id.
func TraceID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("trace_id", id)
}

func Method(method string) slog.Attr { return slog.String("method", method) }
func Path(path string) slog.Attr     { return slog.String("path", path) }
func StatusCode(code int) slog.Attr  { return slog.Int("status_code", code) }
func ClientIP(ip string) slog.Attr   { return slog.String("client_ip", ip) }
func UserAgent(ua string) slog.Attr  { return slog.String("user_agent", ua) }
func BytesOut(n int64) slog.Attr     { return slog.Int64("bytes_out", n) }

// Route records the matched route pattern.
func Route(pattern string) slog.Attr {
	if pattern == "" {
		return slog.Attr{}
	}
	return slog.String("route", pattern)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event names what happened, e.g. "request_completed".
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Panic records a recovered panic value.
func Panic(v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any("panic", v)
}

// Stack records a stack trace.
func Stack(stack []byte) slog.Attr {
	if len(stack) == 0 {
		return slog.Attr{}
	}
	return slog.String("stack", string(stack))
}
