package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownElement is returned when a session points at an element the script does not define.
var ErrUnknownElement = errors.New("unknown dialog element")

// ErrMalformedRequest is returned when the inbound payload misses required fields.
var ErrMalformedRequest = errors.New("malformed request")

// MalformedRequestError names the missing field of a rejected payload.
type MalformedRequestError struct {
	Field string
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request: missing %s", e.Field)
}

func (e *MalformedRequestError) Unwrap() error {
	return ErrMalformedRequest
}
