package chatclient

import (
	"errors"
	"fmt"
)

// ErrUnterminatedStream is returned when the server closed an event stream
// without sending [DONE] or an error event.
var ErrUnterminatedStream = errors.New("event stream closed without a terminal marker")

// TransportError means the request could not be sent or the response could
// not be read.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the server answered with a body that does not match the
// chat contract.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q response: %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusError is returned by Stream when the server refused to start a
// stream.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat stream rejected with status %d: %s", e.StatusCode, e.Message)
}

// StreamError carries the message of a server-side error event.
type StreamError struct {
	Message string
}

func (e *StreamError) Error() string {
	return "chat stream failed: " + e.Message
}
