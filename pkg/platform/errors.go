package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrClosed is returned when operating on a closed channel or stream.
	ErrClosed = errors.New("platform: channel closed")

	// ErrDisposed is returned when calling a method on a disposed controller.
	ErrDisposed = errors.New("platform: controller disposed")

	// ErrNoDispatcher is returned when work must run on the UI thread but no
	// UI dispatcher has been registered.
	ErrNoDispatcher = errors.New("platform: no UI dispatcher registered")
)
