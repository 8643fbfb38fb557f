package config

import "errors"

// Errors returned by configuration operations.
var (
	// ErrInvalidConfig indicates a value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedFormat indicates an unrecognized config file extension.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrWatcherClosed indicates the watcher has been closed.
	ErrWatcherClosed = errors.New("config watcher closed")
)
