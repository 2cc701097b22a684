package gateway

import "errors"

var (
	// ErrSourceUnavailable wraps read failures from the byte source. EOF is
	// not one of them; a source that ends cleanly ends the pipeline cleanly.
	ErrSourceUnavailable = errors.New("gateway: source unavailable")

	// ErrAlreadyRunning is returned by Run when the pipeline was started
	// twice.
	ErrAlreadyRunning = errors.New("gateway: pipeline already running")
)
