package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cineplex/booking-gateway/internal/model"
)

// CreateReservationResponse is the store's verdict on a submission.
// The store signals failure two ways inside a 2xx body: an `error`
// member, or `success: false` with a message.  Success is a pointer
// because the marker may be absent entirely; the submission guard
// treats that case as ambiguous.
type CreateReservationResponse struct {
	Success     *bool              `json:"success"`
	Error       string             `json:"error"`
	Message     string             `json:"message"`
	Reservation *model.Reservation `json:"data"`
}

// CreateReservation books seats for a showtime on behalf of the
// authenticated user.  The response payload is returned undigested;
// interpreting it (including the ambiguous shapes the store can
// produce) is the submission guard's job.
func (c *Client) CreateReservation(ctx context.Context, token, showtimeID string, seats int) (*CreateReservationResponse, error) {
	body := map[string]any{"showtime_id": showtimeID, "seats": seats}
	raw, err := c.do(ctx, http.MethodPost, "/reservations", token, body)
	if err != nil {
		return nil, err
	}
	var resp CreateReservationResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyReservations lists the authenticated user's reservations.
func (c *Client) MyReservations(ctx context.Context, token string) ([]model.Reservation, error) {
	var rs []model.Reservation
	if err := c.getList(ctx, "/my-reservations", token, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// Reservations lists every reservation in the store (admin view).
func (c *Client) Reservations(ctx context.Context, token string) ([]model.Reservation, error) {
	var rs []model.Reservation
	if err := c.getList(ctx, "/reservations", token, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// CancelReservation transitions a confirmed reservation to cancelled.
func (c *Client) CancelReservation(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodPost, "/reservations/"+id+"/cancel", token, nil)
	return err
}

// DeleteReservation removes a reservation outright.  This is the admin
// hard delete, distinct from the user-facing cancel.
func (c *Client) DeleteReservation(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/reservations/"+id, token, nil)
	return err
}

// Stats fetches the dashboard counters.
func (c *Client) Stats(ctx context.Context, token string) (*model.Stats, error) {
	var s model.Stats
	if err := c.getJSON(ctx, "/stats", token, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
