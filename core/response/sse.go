package response

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/dispatch/core/handler"
)

// Event is one Server-Sent Events message. The zero value is an empty
// message that only terminates a block; fields are set with the builder
// methods, which return modified copies.
type Event struct {
	id      *string
	data    *string
	event   *string
	retry   *uint64
	comment *string
}

// NewEvent returns an empty Event.
func NewEvent() Event { return Event{} }

// ID sets the event id the client echoes in Last-Event-ID.
func (e Event) ID(id string) Event {
	e.id = &id
	return e
}

// Data sets the payload. Multi-line payloads are sent as one data line per line.
func (e Event) Data(data string) Event {
	e.data = &data
	return e
}

// Event sets the event name.
func (e Event) Event(name string) Event {
	e.event = &name
	return e
}

// Retry sets the client reconnection delay in milliseconds.
func (e Event) Retry(millis uint64) Event {
	e.retry = &millis
	return e
}

// Comment sets a comment line, ignored by clients.
func (e Event) Comment(comment string) Event {
	e.comment = &comment
	return e
}

// WriteTo writes the wire form of e: comment, event, data lines, id, retry,
// then one blank line.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	line := func(prefix, value string) {
		k, _ := bw.WriteString(prefix)
		n += int64(k)
		k, _ = bw.WriteString(value)
		n += int64(k)
		_ = bw.WriteByte('\n')
		n++
	}

	if e.comment != nil {
		line(":", *e.comment)
	}
	if e.event != nil {
		line("event:", *e.event)
	}
	if e.data != nil {
		for _, l := range splitLines(*e.data) {
			line("data: ", l)
		}
	}
	if e.id != nil {
		line("id:", *e.id)
	}
	if e.retry != nil {
		line("retry:", strconv.FormatUint(*e.retry, 10))
	}
	_ = bw.WriteByte('\n')
	n++

	return n, bw.Flush()
}

// String returns the wire form of e.
func (e Event) String() string {
	var b strings.Builder
	_, _ = e.WriteTo(&b)
	return b.String()
}

// Bytes returns the wire form of e.
func (e Event) Bytes() []byte {
	return []byte(e.String())
}

// splitLines splits on "\n", drops a trailing "\r" from each line, and does
// not produce an empty final line for a trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// DefaultSSEKeepAlive is the default interval between keep-alive comments.
const DefaultSSEKeepAlive = 30 * time.Second

type sseConfig struct {
	keepAlive time.Duration
	retry     uint64
	onError   func(context.Context, error)
}

// SSEOption configures an SSE stream.
type SSEOption func(*sseConfig)

// WithKeepAlive sets the keep-alive interval. Zero disables keep-alives.
func WithKeepAlive(interval time.Duration) SSEOption {
	return func(c *sseConfig) { c.keepAlive = interval }
}

// WithRetry sends a retry field with the given delay before the first event.
func WithRetry(millis uint64) SSEOption {
	return func(c *sseConfig) { c.retry = millis }
}

// WithSSEErrorHandler receives write errors; the stream ends after one.
func WithSSEErrorHandler(fn func(context.Context, error)) SSEOption {
	return func(c *sseConfig) { c.onError = fn }
}

// SSE streams events until the channel is closed or the client goes away.
func SSE(events <-chan Event, opts ...SSEOption) handler.Response {
	cfg := sseConfig{keepAlive: DefaultSSEKeepAlive}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			return ErrInternalServerError.WithMessage("streaming unsupported")
		}

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		ctx := r.Context()
		send := func(e Event) bool {
			if _, err := e.WriteTo(w); err != nil {
				if cfg.onError != nil {
					cfg.onError(ctx, fmt.Errorf("write sse event: %w", err))
				}
				return false
			}
			flusher.Flush()
			return true
		}

		first := NewEvent().Comment("connected")
		if cfg.retry > 0 {
			first = first.Retry(cfg.retry)
		}
		if !send(first) {
			return nil
		}

		var tick <-chan time.Time
		if cfg.keepAlive > 0 {
			ticker := time.NewTicker(cfg.keepAlive)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
				if !send(NewEvent().Comment("keepalive")) {
					return nil
				}
			case e, ok := <-events:
				if !ok {
					return nil
				}
				if !send(e) {
					return nil
				}
			}
		}
	}
}
