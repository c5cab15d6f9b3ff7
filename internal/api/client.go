// Package api is the REST client for the storefront backend. Every
// response travels in a {success, message, data} envelope; errors carry
// the server-supplied message. An authorization failure triggers exactly
// one transparent token refresh before the original call is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20

	refreshPath = "/auth/refresh"
)

// ErrSessionExpired is returned when the refresh attempt itself fails.
// The local session has already been invalidated by the time callers
// see it.
var ErrSessionExpired = errors.New("session expired")

// Error is a normalized backend failure.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Message extracts the user-facing text from any error returned by the
// client. Unknown errors fall back to a generic message.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	if errors.Is(err, ErrSessionExpired) {
		return "Your session has expired. Please sign in again."
	}
	return "An error occurred. Please try again."
}

// Credentials supplies the backend access credential for one session and
// accepts the rotated credential after a refresh. A nil Credentials means
// an anonymous call.
type Credentials interface {
	Token() string
	RefreshToken() string
	// SetToken persists a rotated access token.
	SetToken(tok string) error
	// Invalidate tears the session down after a failed refresh.
	Invalidate() error
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type refreshData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NewWithHTTPClient is used by tests to inject a transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.http = hc
	}
	return c
}

// Do issues a JSON request and decodes the envelope's data field into
// out (which may be nil). On 401/403 with credentials present it calls
// the refresh endpoint once and retries the original request; the
// refresh call itself is never retried.
func (c *Client) Do(ctx context.Context, creds Credentials, method, path string, body, out any) error {
	resp, err := c.send(ctx, creds, method, path, body)
	if err != nil {
		return err
	}

	if authFailure(resp.StatusCode) && creds != nil && path != refreshPath {
		drain(resp)
		if err := c.refresh(ctx, creds); err != nil {
			return err
		}
		resp, err = c.send(ctx, creds, method, path, body)
		if err != nil {
			return err
		}
	}

	return decode(resp, out)
}

func (c *Client) Get(ctx context.Context, creds Credentials, path string, out any) error {
	return c.Do(ctx, creds, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, creds Credentials, path string, body, out any) error {
	return c.Do(ctx, creds, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, creds Credentials, path string, body, out any) error {
	return c.Do(ctx, creds, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, creds Credentials, path string, out any) error {
	return c.Do(ctx, creds, http.MethodDelete, path, nil, out)
}

func (c *Client) send(ctx context.Context, creds Credentials, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		if tok := creds.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	return resp, nil
}

// refresh exchanges the refresh token for a fresh access token. On any
// failure the session is invalidated and ErrSessionExpired is returned.
func (c *Client) refresh(ctx context.Context, creds Credentials) error {
	resp, err := c.send(ctx, nil, http.MethodPost, refreshPath, map[string]string{
		"refreshToken": creds.RefreshToken(),
	})
	if err != nil {
		_ = creds.Invalidate()
		return ErrSessionExpired
	}

	var data refreshData
	if err := decode(resp, &data); err != nil || data.AccessToken == "" {
		_ = creds.Invalidate()
		return ErrSessionExpired
	}
	if err := creds.SetToken(data.AccessToken); err != nil {
		return fmt.Errorf("store refreshed token: %w", err)
	}
	return nil
}

func decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	// A missing or malformed envelope on an error status still needs a
	// sensible message.
	_ = json.Unmarshal(b, &env)

	// success:false on a 2xx is still a failure, message or not.
	if resp.StatusCode >= 400 || (len(b) > 0 && !env.Success) {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

func authFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body.Close()
}
