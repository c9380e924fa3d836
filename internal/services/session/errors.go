package session

import (
	"errors"
	"fmt"
)

// ErrAlreadyJoined is returned by Join on a Service that is connecting or open.
var ErrAlreadyJoined = errors.New("session already joined")

// ErrLeft is returned by Join once Leave has been called, including when Leave
// interrupts a join that is still deriving or dialing.
var ErrLeft = errors.New("session left before join completed")

// ValidationError reports a join parameter that is missing or invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a failure of the room socket. It ends the session.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return "transport " + e.Op + ": " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
