// Package api is the HTTP client for the remote cinema store.  Every
// entity the gateway displays is owned by that store; this package
// exposes its operations as plain Go calls and normalizes its two
// failure modes: an HTTP status (StatusError) and no response at all
// (ErrUnreachable).
package api

import (
	"errors"
	"fmt"
)

// ErrUnreachable wraps any transport failure where no HTTP response
// was received.  Callers match it with errors.Is.
var ErrUnreachable = errors.New("cinema store unreachable")

// StatusError reports a non-2xx response from the store.  Message
// carries the human-readable reason extracted from the body when the
// store provided one.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("cinema store returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("cinema store returned %d", e.Code)
}
