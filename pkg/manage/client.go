// Package manage implements the generic resource-management layer shared by
// every OpsHub admin panel: debounced search, predicate filtering, paginated
// fetching with last-request-wins semantics, CRUD orchestration, and status
// toggling. It is entity-agnostic; panels bind it to a resource endpoint and
// a data key and get identical behavior.
package manage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PageInfo is the pagination block of a list envelope.
type PageInfo struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// APIError is an application-level failure: the server understood the request
// and rejected it with a human-readable message.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return "request rejected"
	}
	return e.Message
}

// IsAPIError reports whether err carries a server-provided rejection message.
func IsAPIError(err error) bool {
	var target *APIError
	return errors.As(err, &target)
}

// Client talks to the admin API using the uniform envelope contract:
// {success, <dataKey>: [...], pagination?, error?}.
type Client struct {
	base    string
	http    *http.Client
	token   string
	retries int
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithToken sets a bearer token sent on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithRetries sets how many times a GET is retried after a transport error.
// Mutations are never retried.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// NewClient builds a Client for the given base URL.
func NewClient(base string, opts ...ClientOption) *Client {
	c := &Client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		retries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success    bool      `json:"success"`
	Error      string    `json:"error"`
	Pagination *PageInfo `json:"pagination"`
}

// List fetches one page of a resource collection. The item array lives under
// dataKey in the envelope; out must be a pointer to a slice. A nil PageInfo
// means the server sent no pagination block.
func (c *Client) List(ctx context.Context, path, dataKey string, query url.Values, out any) (*PageInfo, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Message: env.Error}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	raw, ok := fields[dataKey]
	if !ok || string(raw) == "null" {
		return env.Pagination, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode %q items: %w", dataKey, err)
	}
	return env.Pagination, nil
}

// Send issues a mutation (POST, PUT, PATCH, DELETE) and interprets the
// envelope. A {success:false} response becomes an *APIError.
func (c *Client) Send(ctx context.Context, method, path string, query url.Values, payload any) error {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode payload: %w", err)
		}
		body = b
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, query), bytes.NewReader(body))
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return &APIError{Message: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		return &APIError{Message: env.Error}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path, query), nil)
		if err != nil {
			return nil, err
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("network error: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("network error: %w", err)
			continue
		}
		return buf.Bytes(), nil
	}
	return nil, lastErr
}

func (c *Client) url(path string, query url.Values) string {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
