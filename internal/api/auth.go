package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cineplex/booking-gateway/internal/model"
)

// AuthResult is the remote auth service's response to a successful
// login or registration: the access token the gateway will forward on
// subsequent store calls, plus the user record.
type AuthResult struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login exchanges credentials for a token and user record.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", "", body)
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(unwrapData(raw), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates an account and, like Login, returns a usable
// session immediately.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	raw, err := c.do(ctx, http.MethodPost, "/auth/register", "", body)
	if err != nil {
		return nil, err
	}
	var res AuthResult
	if err := json.Unmarshal(unwrapData(raw), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the user the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*model.User, error) {
	var u model.User
	if err := c.getJSON(ctx, "/auth/me", token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
