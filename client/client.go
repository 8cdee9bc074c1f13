// Package client is the Go client for the LabIS admin API. It mirrors what
// the admin console does on top of the API: one gateway for all requests,
// a persistent session store with token refresh, an HIS session store with
// expiry polling, and a short-lived query cache for reference data.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is used when LABIS_API_URL is not set
const DefaultBaseURL = "http://localhost:3333/api/v1"

// APIError is a failed API call. Message carries the most specific error
// text the server provided.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a 401 API error
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 API error
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client is the API gateway. All requests go through it; it owns the
// access token, transparently refreshes it on a 401 and retries once.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *queryCache

	mu           sync.RWMutex
	accessToken  string
	refreshToken string

	// onTokens is invoked after a transparent refresh so the session
	// store can persist the rotated pair
	onTokens func(accessToken, refreshToken string)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithQueryCache enables the short-lived cache for catalog reads
func WithQueryCache(ttl time.Duration) Option {
	return func(c *Client) { c.cache = newQueryCache(ttl) }
}

// New creates a client for the given base URL. An empty baseURL falls back
// to the LABIS_API_URL environment variable, then to DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("LABIS_API_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetTokens sets the token pair used for authenticated requests
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
	c.mu.Unlock()
}

// ClearTokens drops the token pair
func (c *Client) ClearTokens() {
	c.SetTokens("", "")
}

// AccessToken returns the current access token
func (c *Client) AccessToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

func (c *Client) currentRefreshToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// OnTokensRotated registers a callback invoked whenever the client
// refreshes the token pair on its own
func (c *Client) OnTokensRotated(fn func(accessToken, refreshToken string)) {
	c.mu.Lock()
	c.onTokens = fn
	c.mu.Unlock()
}

// envelope mirrors the server's response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

// errorMessage extracts the most specific error text from a response
// body: a nested error message first, then the top-level message, then
// the error string, and finally an HTTP status fallback.
func errorMessage(body []byte, status int) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if len(env.Error) > 0 {
			var nested struct {
				Message string `json:"message"`
			}
			if err := json.Unmarshal(env.Error, &nested); err == nil && nested.Message != "" {
				return nested.Message
			}
		}
		if env.Message != "" {
			return env.Message
		}
		if len(env.Error) > 0 {
			var text string
			if err := json.Unmarshal(env.Error, &text); err == nil && text != "" {
				return text
			}
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// do performs one API request, decoding the data payload into out.
// A 401 on an authenticated request triggers one token refresh and retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	err := c.doOnce(ctx, method, path, query, body, out)
	if err == nil || !IsUnauthorized(err) {
		return err
	}

	// Credential endpoints must not recurse into a refresh
	switch path {
	case "/auth/login", "/auth/register", "/auth/refresh", "/auth/logout":
		return err
	}

	c.mu.RLock()
	refreshToken := c.refreshToken
	c.mu.RUnlock()
	if refreshToken == "" {
		return err
	}

	if refreshErr := c.refresh(ctx, refreshToken); refreshErr != nil {
		return err
	}

	return c.doOnce(ctx, method, path, query, body, out)
}

// doOnce performs a single request without retry
func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: errorMessage(respBody, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return err
	}
	if len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// refresh exchanges the refresh token for a new pair and installs it
func (c *Client) refresh(ctx context.Context, refreshToken string) error {
	var result AuthResult
	err := c.doOnce(ctx, http.MethodPost, "/auth/refresh", nil,
		map[string]string{"refreshToken": refreshToken}, &result)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.accessToken = result.AccessToken
	c.refreshToken = result.RefreshToken
	fn := c.onTokens
	c.mu.Unlock()

	if fn != nil {
		fn(result.AccessToken, result.RefreshToken)
	}
	return nil
}

// get performs a GET, serving catalog reads from the query cache when
// one is configured
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if c.cache == nil {
		return c.do(ctx, http.MethodGet, path, query, nil, out)
	}

	key := cacheKey(path, query)
	if c.cache.get(key, out) {
		return nil
	}

	if err := c.do(ctx, http.MethodGet, path, query, nil, out); err != nil {
		return err
	}
	c.cache.put(key, out)
	return nil
}

// invalidate drops cached reads for a resource after a mutation,
// nested listings included
func (c *Client) invalidate(base string) {
	if c.cache != nil {
		c.cache.invalidateResource(base)
	}
}
