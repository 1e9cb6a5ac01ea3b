// Package booking gates the one stateful write in the system: turning
// a selected showtime into a reservation.  The error values here form
// the user-facing taxonomy; handlers translate them to HTTP statuses
// and never let a collaborator failure escape as anything else.
package booking

import (
	"errors"
	"fmt"
)

// Client-detected validation failures, checked before any network call.
var (
	// ErrUnauthenticated means no signed-in user backs the submission.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNoSelection means no showtime is selected.
	ErrNoSelection = errors.New("no showtime selected")
	// ErrSeatCount means the requested seat count is not a positive integer.
	ErrSeatCount = errors.New("seat count must be at least 1")
	// ErrInFlight signals that a submission is already running on this
	// guard; the duplicate call was dropped without a network request.
	ErrInFlight = errors.New("a submission is already in progress")
)

// Collaborator outcomes.
var (
	// ErrAmbiguousResponse means the store answered 2xx but with neither
	// an explicit success nor an explicit failure marker.
	ErrAmbiguousResponse = errors.New("unrecognizable response from the cinema store")
	// ErrInvalidOrFull maps HTTP 400: the showtime is full or the
	// request was judged invalid by the store.
	ErrInvalidOrFull = errors.New("showtime is full or the request was invalid")
	// ErrShowtimeNotFound maps HTTP 404.
	ErrShowtimeNotFound = errors.New("showtime not found")
	// ErrDuplicateReservation maps HTTP 409: the user already holds a
	// reservation for this showtime.
	ErrDuplicateReservation = errors.New("reservation already exists for this showtime")
	// ErrUnreachable means no response was received at all.
	ErrUnreachable = errors.New("could not reach the reservation service")
	// ErrUnknown covers any other client-side failure.
	ErrUnknown = errors.New("unexpected error during reservation")
)

// RemoteRejectedError is a 2xx response whose payload explicitly
// refuses the reservation; Reason is the store's own message.
type RemoteRejectedError struct {
	Reason string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("reservation refused: %s", e.Reason)
}

// ServerError is any non-2xx status outside the specifically mapped
// ones (400, 404, 409).
type ServerError struct {
	Status int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("reservation service error (status %d)", e.Status)
}
