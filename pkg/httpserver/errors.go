package httpserver

import "errors"

var (
	// ErrStart indicates that the server failed to start.
	ErrStart = errors.New("httpserver.start_failed")
	// ErrShutdown indicates that graceful shutdown or closing a resource failed.
	ErrShutdown = errors.New("httpserver.shutdown_failed")
)
