package httpclient

import (
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"
)

// Option is a function that configures a Client
type Option func(*Client)

// WithBaseURL sets the base URL for the client; a trailing slash is dropped
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTimeout sets the per-attempt timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHeaders sets default headers for all requests
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		maps.Copy(c.headers, headers)
	}
}

// WithRetryCount sets the number of retries for transport failures
func WithRetryCount(retryCount int) Option {
	return func(c *Client) {
		if retryCount >= 0 {
			c.retryCount = retryCount
		}
	}
}

// WithBackoff sets the base delay between retries
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// WithHTTPClient allows using a custom http.Client
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger adds a slog logger to the client for request/response logging
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}
