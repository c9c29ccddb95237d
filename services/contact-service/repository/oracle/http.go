package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contactbook/pkg/httpclient"
	"contactbook/pkg/logger"
	"contactbook/services/contact-service/intent"
)

// HTTPConfig points the oracle at a completion endpoint that accepts
// {"prompt": "..."} and answers {"text": "..."}
type HTTPConfig struct {
	BaseURL    string
	Path       string
	APIKey     string
	RetryCount int
	Timeout    time.Duration
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// HTTPOracle calls a self-hosted completion service
type HTTPOracle struct {
	client  httpclient.HTTPClient
	path    string
	headers map[string]string
	logger  logger.LoggerInterface
}

// NewHTTPOracle creates an oracle over pkg/httpclient
func NewHTTPOracle(cfg HTTPConfig, appLogger logger.LoggerInterface) *HTTPOracle {
	if appLogger == nil {
		appLogger = logger.NoOpLogger()
	}
	if cfg.Path == "" {
		cfg.Path = "/generate"
	}

	opts := []httpclient.Option{
		httpclient.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")),
		httpclient.WithRetryCount(cfg.RetryCount),
		httpclient.WithBackoff(200 * time.Millisecond),
		httpclient.WithLogger(appLogger.Slog()),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, httpclient.WithTimeout(cfg.Timeout))
	}

	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	return &HTTPOracle{
		client:  httpclient.New(opts...),
		path:    cfg.Path,
		headers: headers,
		logger:  appLogger,
	}
}

// Available reports whether a base URL was configured
func (o *HTTPOracle) Available() bool {
	return o != nil && o.client.BaseURL() != ""
}

// Generate posts prompt and returns the reply text
func (o *HTTPOracle) Generate(ctx context.Context, prompt string) (string, error) {
	if !o.Available() {
		return "", intent.ErrOracleUnavailable
	}

	var resp generateResponse
	if err := o.client.PostJSON(ctx, o.path, generateRequest{Prompt: prompt}, &resp, o.headers); err != nil {
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			o.logger.WarnContext(ctx, "Oracle endpoint returned an error status", "status_code", statusErr.StatusCode)
		}
		return "", fmt.Errorf("oracle request: %w", err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", errors.New("oracle request: empty text")
	}
	return text, nil
}
