package booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/model"
)

// CreateFunc dispatches a reservation to the store.  In production it
// closes over the session's bearer token and the api.Client.
type CreateFunc func(ctx context.Context, showtimeID string, seats int) (*api.CreateReservationResponse, error)

// Guard serializes reservation submissions for one selection scope
// (one per session).  At most one submission is ever in flight: a call
// arriving while another runs is dropped with ErrInFlight and no
// second network request is issued.
type Guard struct {
	create   CreateFunc
	inFlight atomic.Bool
}

// NewGuard builds a guard around the given dispatch function.
func NewGuard(create CreateFunc) *Guard {
	if create == nil {
		panic("nil create func passed to NewGuard")
	}
	return &Guard{create: create}
}

// Submit checks preconditions in order, short-circuiting on the first
// failure: the caller must be authenticated, a showtime must be
// selected, and the seat count must be positive.  It then dispatches
// at most one request and maps every possible outcome onto the
// package's error taxonomy.  On success the created reservation (when
// the store returned it) is handed back for display.
func (g *Guard) Submit(ctx context.Context, selection *model.Showtime, seats int, authenticated bool) (*model.Reservation, error) {
	if !authenticated {
		return nil, ErrUnauthenticated
	}
	if selection == nil {
		return nil, ErrNoSelection
	}
	if seats < 1 {
		return nil, ErrSeatCount
	}
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}
	defer g.inFlight.Store(false)

	resp, err := g.create(ctx, selection.ID, seats)
	if err != nil {
		return nil, mapTransport(err)
	}
	if resp == nil {
		return nil, ErrAmbiguousResponse
	}
	// An error member wins over every other marker in the payload.
	if resp.Error != "" {
		return nil, &RemoteRejectedError{Reason: resp.Error}
	}
	if resp.Success != nil && !*resp.Success {
		return nil, &RemoteRejectedError{Reason: resp.Message}
	}
	if (resp.Success != nil && *resp.Success) || resp.Reservation != nil {
		return resp.Reservation, nil
	}
	return nil, ErrAmbiguousResponse
}

// mapTransport folds a client error into the taxonomy: the three
// specifically mapped statuses, a generic server error for the rest,
// unreachable for transport failures, unknown for everything else.
func mapTransport(err error) error {
	var se *api.StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusBadRequest:
			return ErrInvalidOrFull
		case http.StatusNotFound:
			return ErrShowtimeNotFound
		case http.StatusConflict:
			return ErrDuplicateReservation
		default:
			return &ServerError{Status: se.Code}
		}
	}
	if errors.Is(err, api.ErrUnreachable) {
		return ErrUnreachable
	}
	return fmt.Errorf("%w: %v", ErrUnknown, err)
}
