package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a store response is read into memory.
const maxBodyBytes = 4 << 20

// Client talks to the remote cinema store.  It is safe for concurrent
// use; per-user authorization is passed as a bearer token on each call
// rather than held in the client.
type Client struct {
	base string
	http *http.Client
}

// New builds a client for the store at base (scheme://host[:port],
// with or without a trailing slash).
func New(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

// do issues one request.  body (when non-nil) is sent as JSON; the raw
// response body is returned for the caller to decode.  Non-2xx
// responses become *StatusError, transport failures ErrUnreachable.
func (c *Client) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Message: messageFrom(raw)}
	}
	return raw, nil
}

// getList fetches path and decodes a JSON sequence into out,
// tolerating both response shapes the store is known to serve: a bare
// array, or an envelope with the array under "data" or "items".
func (c *Client) getList(ctx context.Context, path, token string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	return unmarshalList(raw, out)
}

// getJSON fetches path and decodes a single JSON object into out,
// unwrapping a "data" envelope when present.
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	raw, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(unwrapData(raw), out)
}

func unmarshalList(raw []byte, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, out)
	}
	var env struct {
		Data  json.RawMessage `json:"data"`
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return fmt.Errorf("decode list response: %w", err)
	}
	switch {
	case env.Data != nil:
		return json.Unmarshal(env.Data, out)
	case env.Items != nil:
		return json.Unmarshal(env.Items, out)
	}
	return fmt.Errorf("list response has no recognizable sequence")
}

// unwrapData returns the "data" member of an envelope object, or the
// input unchanged when there is none.
func unwrapData(raw []byte) []byte {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err == nil && env.Data != nil {
		return env.Data
	}
	return raw
}

// messageFrom extracts a reason from an error body, preferring the
// "message" then "error" JSON members, falling back to the trimmed
// body itself.
func messageFrom(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	s := strings.TrimSpace(string(raw))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
