package provider

import (
	"errors"
	"fmt"
)

// ErrUnexpectedStatus is returned when a provider answers a star request
// with a status other than the one it documents for success.
var ErrUnexpectedStatus = errors.New("unexpected status")

// StatusError carries the HTTP status of an unexpected response.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %s %d", e.Op, ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
