// Package api implements the HTTP pipeline every domain call goes
// through: one client bound to one base URL, a request interceptor
// that attaches the cached bearer token, and a response interceptor
// that purges the cached session on a 401.
//
// The pipeline performs no retries, no token refresh and no
// navigation decisions; a 401 only clears the cache and hands the
// original failure back to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/notably/notably.go/pkg/storage"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 30 * time.Second

// envelope is the server's two-level success wrapper. Responses are
// unwrapped exactly one level; callers receive the inner payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// failureBody is the shape of non-2xx bodies.
type failureBody struct {
	Message string `json:"message"`
}

// Client issues JSON requests against a single base URL. It is safe
// for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      storage.Store
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger for request/response tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "api").Logger() }
}

// New creates a client for the API at baseURL (including any path
// prefix, e.g. "http://localhost:3000/api", no trailing slash). The
// store supplies the bearer token per request and is purged on 401.
func New(baseURL string, store storage.Store, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		store:      store,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the unwrapped payload into target.
func (c *Client) Get(ctx context.Context, path string, target any) error {
	return c.do(ctx, http.MethodGet, path, nil, target)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPost, path, body, target)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, target any) error {
	return c.do(ctx, http.MethodPut, path, body, target)
}

// Delete issues a DELETE. The payload of a successful delete is
// implementation-defined upstream and discarded here.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Request interceptor: the token is read from the store on every
	// request, never cached on the client. A stale token is sent as-is.
	if token, ok := c.store.Get(storage.KeyToken); ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().Str("method", method).Str("path", path).Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Msg("response")

	// Response interceptor: a 401 from any endpoint invalidates the
	// cached session. The failure still propagates unchanged; whether
	// to re-authenticate is the caller's decision.
	if resp.StatusCode == http.StatusUnauthorized {
		storage.ClearSession(c.store)
		c.log.Debug().Msg("401 response, cleared cached session")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, raw)
	}

	if target == nil || len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: decode envelope: %w", method, path, err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("%s %s: decode payload: %w", method, path, err)
	}
	return nil
}

func newError(status int, raw []byte) *Error {
	var fb failureBody
	if err := json.Unmarshal(raw, &fb); err != nil || fb.Message == "" {
		return &Error{StatusCode: status, Message: fallbackMessage}
	}
	return &Error{StatusCode: status, Message: fb.Message}
}
