package camera

import (
	"errors"
	"fmt"
)

// Sentinel conditions GetFrame reports as values rather than failures.
var (
	// ErrEndOfStream means the peer closed cleanly after the final frame.
	ErrEndOfStream = errors.New("end of stream")

	// ErrTimeout means a bounded read stalled past its deadline.
	ErrTimeout = errors.New("read timed out")
)

// InitializationError means the underlying resource could not be reached
// during InitializeCamera.
type InitializationError struct {
	Reason string
	Err    error
}

func (e *InitializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("initialization failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("initialization failed: %s", e.Reason)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// InvalidStateError means an operation was called outside the lifecycle
// state that permits it, or a stream-immutable setting was changed while
// streaming.
type InvalidStateError struct {
	Op    string
	State State
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s not allowed in state %s", e.Op, e.State)
}

// ConnectionError is a socket-level failure.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError means a malformed handshake or frame header, or a payload
// inconsistent with its declared geometry.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NoImagesFoundError means a directory scan produced no eligible images.
type NoImagesFoundError struct {
	Root string
}

func (e *NoImagesFoundError) Error() string {
	return fmt.Sprintf("no images found under %s", e.Root)
}
