package server

import "errors"

var (
	// ErrHandlerNotFound means the request method has no registered handler.
	ErrHandlerNotFound = errors.New("no handler for method")

	// ErrServerClosed means the accept loop has shut down.
	ErrServerClosed = errors.New("server closed")

	// ErrFrameTooLarge means a frame announced a body over the size limit.
	ErrFrameTooLarge = errors.New("frame exceeds maximum message size")
)
