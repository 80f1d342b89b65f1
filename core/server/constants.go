package server

import "time"

const (
	DefaultReadTimeout = 15 * time.Second
	// DefaultWriteTimeout is zero: streaming responses such as SSE stay open
	// indefinitely and must not be cut off.
	DefaultWriteTimeout    = 0
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
)
