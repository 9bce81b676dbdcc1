package httpserver

import "errors"

var (
	// ErrStart indicates the server failed to start.
	ErrStart = errors.New("httpserver: failed to start")
	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("httpserver: shutdown failed")
)
