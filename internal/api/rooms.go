package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cineplex/booking-gateway/internal/model"
)

// Rooms lists every screening room.
func (c *Client) Rooms(ctx context.Context, token string) ([]model.Room, error) {
	var rooms []model.Room
	if err := c.getList(ctx, "/rooms", token, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom adds a room and returns the stored record.
func (c *Client) CreateRoom(ctx context.Context, token string, r model.Room) (*model.Room, error) {
	raw, err := c.do(ctx, http.MethodPost, "/rooms", token, r)
	if err != nil {
		return nil, err
	}
	var created model.Room
	if err := json.Unmarshal(unwrapData(raw), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateRoom replaces the room with the given id.
func (c *Client) UpdateRoom(ctx context.Context, token, id string, r model.Room) (*model.Room, error) {
	raw, err := c.do(ctx, http.MethodPut, "/rooms/"+id, token, r)
	if err != nil {
		return nil, err
	}
	var updated model.Room
	if err := json.Unmarshal(unwrapData(raw), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteRoom removes the room with the given id.
func (c *Client) DeleteRoom(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/rooms/"+id, token, nil)
	return err
}
