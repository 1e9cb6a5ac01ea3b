package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cineplex/booking-gateway/internal/model"
)

// Films lists every film in the store.
func (c *Client) Films(ctx context.Context, token string) ([]model.Film, error) {
	var films []model.Film
	if err := c.getList(ctx, "/films", token, &films); err != nil {
		return nil, err
	}
	return films, nil
}

// FilmWithShowtimes fetches one film together with its showtimes, the
// payload behind the film-details screen.
func (c *Client) FilmWithShowtimes(ctx context.Context, token, id string) (*model.Film, []model.Showtime, error) {
	raw, err := c.do(ctx, http.MethodGet, "/films/"+id, token, nil)
	if err != nil {
		return nil, nil, err
	}
	var payload struct {
		Film      *model.Film      `json:"film"`
		Showtimes []model.Showtime `json:"showtimes"`
	}
	if err := json.Unmarshal(unwrapData(raw), &payload); err != nil {
		return nil, nil, err
	}
	if payload.Film == nil {
		// Some deployments serve the film object directly with the
		// showtimes embedded; try that shape before giving up.
		var flat struct {
			model.Film
			Showtimes []model.Showtime `json:"showtimes"`
		}
		if err := json.Unmarshal(unwrapData(raw), &flat); err != nil || flat.ID == "" {
			return nil, nil, &StatusError{Code: http.StatusNotFound, Message: "film not found"}
		}
		return &flat.Film, flat.Showtimes, nil
	}
	return payload.Film, payload.Showtimes, nil
}

// CreateFilm adds a film and returns the stored record.
func (c *Client) CreateFilm(ctx context.Context, token string, f model.Film) (*model.Film, error) {
	raw, err := c.do(ctx, http.MethodPost, "/films", token, f)
	if err != nil {
		return nil, err
	}
	var created model.Film
	if err := json.Unmarshal(unwrapData(raw), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFilm replaces the film with the given id.
func (c *Client) UpdateFilm(ctx context.Context, token, id string, f model.Film) (*model.Film, error) {
	raw, err := c.do(ctx, http.MethodPut, "/films/"+id, token, f)
	if err != nil {
		return nil, err
	}
	var updated model.Film
	if err := json.Unmarshal(unwrapData(raw), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteFilm removes the film with the given id.
func (c *Client) DeleteFilm(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/films/"+id, token, nil)
	return err
}
