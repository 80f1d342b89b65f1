package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrServe                = errors.New("http server error")
	ErrShutdown             = errors.New("http shutdown error")
	ErrNotSocket            = errors.New("path exists and is not a socket")
	ErrAddressInUse         = errors.New("socket is in use by another process")
	ErrLoadCertificate      = errors.New("failed to load certificate")
)
