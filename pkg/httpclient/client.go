// Package httpclient is a small JSON-over-HTTP client with retries, used for outbound service calls
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	GetJSON(ctx context.Context, path string, result any, headers map[string]string) error
	PostJSON(ctx context.Context, path string, data any, result any, headers map[string]string) error
	Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*http.Response, error)
	BaseURL() string
	Timeout() time.Duration
	RetryCount() int
}

// StatusError is returned by the JSON helpers for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status: %d, body: %s", e.StatusCode, e.Body)
}

// Client represents an HTTP client with configurable settings
type Client struct {
	client     *http.Client
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	retryCount int
	backoff    time.Duration
	logger     *slog.Logger
}

// New creates a new HTTP client with the provided options
func New(opts ...Option) HTTPClient {
	client := &Client{
		client:  &http.Client{},
		headers: make(map[string]string),
		timeout: 30 * time.Second,
		backoff: time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.client.Timeout = client.timeout

	return client
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// do performs the request, rebuilding it for every attempt so the body can be replayed
func (c *Client) do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*http.Response, error) {
	url := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.retryCount; attempt++ {
		if attempt > 0 {
			// exponential backoff with a small linear jitter
			wait := c.backoff<<uint(attempt-1) + time.Duration(attempt*100)*time.Millisecond
			c.logDebug("Retrying HTTP request", "method", method, "url", url, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, fmt.Errorf("request cancelled while retrying: %w", ctx.Err())
			}
		}

		req, err := c.newRequest(ctx, method, url, body, headers)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err == nil {
			c.logDebug("HTTP response", "method", method, "url", url, "status_code", resp.StatusCode)
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	if c.logger != nil {
		c.logger.Error("HTTP request failed", "method", method, "url", url, "retries", c.retryCount, "error", lastErr)
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.retryCount, lastErr)
}

func (c *Client) logDebug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Client) decode(resp *http.Response, path string, result any) error {
	defer func() {
		_ = resp.Body.Close()
	}()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if c.logger != nil {
			c.logger.Warn("HTTP request returned an error status", "path", path, "status_code", resp.StatusCode)
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(responseBody)}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(responseBody, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// GetJSON performs a GET request and unmarshals the response into result
func (c *Client) GetJSON(ctx context.Context, path string, result any, headers map[string]string) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, headers)
	if err != nil {
		return err
	}
	return c.decode(resp, path, result)
}

// PostJSON posts data as JSON and unmarshals the response into result
func (c *Client) PostJSON(ctx context.Context, path string, data any, result any, headers map[string]string) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, body, headers)
	if err != nil {
		return err
	}
	return c.decode(resp, path, result)
}

// Do performs a raw request; the caller owns the response body
func (c *Client) Do(ctx context.Context, method, path string, body []byte, headers map[string]string) (*http.Response, error) {
	return c.do(ctx, method, path, body, headers)
}

// BaseURL returns the base URL of the client
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the timeout setting of the client
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// RetryCount returns the retry count setting of the client
func (c *Client) RetryCount() int {
	return c.retryCount
}
