// Package platform connects the Go shell to the native embedder.
//
// The embedder exposes platform facilities (the browser view, the
// notification service, window flags, the back button) over named channels.
// Method channels carry Go-to-native calls with a JSON payload; event channels
// carry native-to-Go notifications. Native views such as the browser view are
// addressed through the platform view registry by a numeric view ID.
package platform

import (
	"encoding/json"
	"errors"
)

// MessageCodec encodes and decodes messages for platform channel communication.
type MessageCodec interface {
	// Encode converts a Go value to bytes for transmission to native code.
	Encode(value any) ([]byte, error)

	// Decode converts bytes received from native code to a Go value.
	Decode(data []byte) (any, error)
}

// JsonCodec implements MessageCodec using JSON encoding.
type JsonCodec struct{}

// Encode serializes the value to JSON bytes.
func (c JsonCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

// Decode deserializes JSON bytes to a Go value. Empty input decodes to nil.
func (c JsonCodec) Decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// DefaultCodec is the codec used by platform channels.
var DefaultCodec MessageCodec = JsonCodec{}

// Standard errors for platform channel operations.
var (
	// ErrChannelNotFound indicates the requested platform channel does not exist.
	ErrChannelNotFound = errors.New("platform channel not found")

	// ErrMethodNotFound indicates the method is not implemented on the other side.
	ErrMethodNotFound = errors.New("method not implemented")

	// ErrInvalidArguments indicates the arguments passed to the method were invalid.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrPlatformUnavailable indicates the platform feature is not available
	// (no native bridge, service missing, OS version too old).
	ErrPlatformUnavailable = errors.New("platform feature unavailable")

	// ErrViewTypeNotFound indicates the platform view type is not registered.
	ErrViewTypeNotFound = errors.New("platform view type not registered")
)

// Error codes native code uses in ChannelError.Code.
const (
	// ErrCodePermissionDenied means the OS refused the operation because the
	// user has not granted the required permission.
	ErrCodePermissionDenied = "permission_denied"

	// ErrCodeUnavailable means the native service backing the call is missing.
	ErrCodeUnavailable = "unavailable"
)

// ChannelError represents an error returned from native code.
type ChannelError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *ChannelError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// NewChannelError creates a new ChannelError with the given code and message.
func NewChannelError(code, message string) *ChannelError {
	return &ChannelError{Code: code, Message: message}
}

// IsPermissionDenied reports whether err is a ChannelError carrying
// ErrCodePermissionDenied.
func IsPermissionDenied(err error) bool {
	var ce *ChannelError
	return errors.As(err, &ce) && ce.Code == ErrCodePermissionDenied
}
