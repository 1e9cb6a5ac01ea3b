package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cineplex/booking-gateway/internal/model"
)

// Showtimes lists every showtime, with film and room expanded when the
// store supports it.
func (c *Client) Showtimes(ctx context.Context, token string) ([]model.Showtime, error) {
	var showtimes []model.Showtime
	if err := c.getList(ctx, "/showtimes", token, &showtimes); err != nil {
		return nil, err
	}
	return showtimes, nil
}

// CreateShowtime schedules a showtime and returns the stored record.
func (c *Client) CreateShowtime(ctx context.Context, token string, s model.Showtime) (*model.Showtime, error) {
	raw, err := c.do(ctx, http.MethodPost, "/showtimes", token, s)
	if err != nil {
		return nil, err
	}
	var created model.Showtime
	if err := json.Unmarshal(unwrapData(raw), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateShowtime replaces the showtime with the given id.
func (c *Client) UpdateShowtime(ctx context.Context, token, id string, s model.Showtime) (*model.Showtime, error) {
	raw, err := c.do(ctx, http.MethodPut, "/showtimes/"+id, token, s)
	if err != nil {
		return nil, err
	}
	var updated model.Showtime
	if err := json.Unmarshal(unwrapData(raw), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteShowtime removes the showtime with the given id.
func (c *Client) DeleteShowtime(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/showtimes/"+id, token, nil)
	return err
}
