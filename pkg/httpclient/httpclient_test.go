package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	client := New()
	require.NotNil(t, client, "New() should not return nil")

	assert.Equal(t, "", client.BaseURL(), "Expected empty base URL")
	assert.Equal(t, 30*time.Second, client.Timeout(), "Expected timeout 30s")
	assert.Equal(t, 0, client.RetryCount())
}

func TestOptions(t *testing.T) {
	client := New(
		WithBaseURL("https://api.example.com/"),
		WithTimeout(10*time.Second),
		WithRetryCount(3),
		WithHeaders(nil),
	)

	assert.Equal(t, "https://api.example.com", client.BaseURL(), "trailing slash is trimmed")
	assert.Equal(t, 10*time.Second, client.Timeout())
	assert.Equal(t, 3, client.RetryCount())

	ignored := New(WithTimeout(0), WithRetryCount(-1))
	assert.Equal(t, 30*time.Second, ignored.Timeout(), "non-positive timeouts keep the default")
	assert.Equal(t, 0, ignored.RetryCount(), "negative retry counts keep the default")
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/complete", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "yes", r.Header.Get("X-Per-Request"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["prompt"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"world"}`))
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithHeaders(map[string]string{"Authorization": "Bearer key"}))

	var result struct {
		Text string `json:"text"`
	}
	err := client.PostJSON(context.Background(), "/v1/complete", map[string]string{"prompt": "hello"}, &result,
		map[string]string{"X-Per-Request": "yes"})
	require.NoError(t, err)
	assert.Equal(t, "world", result.Text)
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	var result map[string]string
	require.NoError(t, New(WithBaseURL(server.URL)).GetJSON(context.Background(), "/health", &result, nil))
	assert.Equal(t, "ok", result["status"])
}

func TestClient_JSON_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("overloaded"))
	}))
	defer server.Close()

	err := New(WithBaseURL(server.URL)).PostJSON(context.Background(), "/", map[string]string{}, nil, nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr), "non-2xx should surface as *StatusError")
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "overloaded", statusErr.Body)
}

func TestClient_JSON_InvalidBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	var result map[string]any
	err := New(WithBaseURL(server.URL)).GetJSON(context.Background(), "/", &result, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal response")
}

func TestClient_PostJSON_MarshalError(t *testing.T) {
	err := New().PostJSON(context.Background(), "/", make(chan int), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal request body")
}

func TestClient_Do_RetryReplaysBody(t *testing.T) {
	var attempts atomic.Int32
	var lastBody atomic.Value

	// the first connection is hijacked and dropped so the transport reports an error
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		lastBody.Store(string(body))
		if attempts.Add(1) == 1 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			_ = conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithRetryCount(2), WithBackoff(time.Millisecond))

	resp, err := client.Do(context.Background(), http.MethodPost, "/", []byte(`{"a":1}`), nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), attempts.Load())
	assert.Equal(t, `{"a":1}`, lastBody.Load(), "the retried request carries the full body")
}

func TestClient_Do_RetryExhaustion(t *testing.T) {
	client := New(
		WithBaseURL("http://127.0.0.1:1"),
		WithRetryCount(1),
		WithBackoff(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	_, err := client.Do(context.Background(), http.MethodGet, "/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed after 1 retries")
}

func TestClient_Do_ContextCancelledDuringBackoff(t *testing.T) {
	client := New(WithBaseURL("http://127.0.0.1:1"), WithRetryCount(5), WithBackoff(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Do(ctx, http.MethodGet, "/", nil, nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second, "backoff must not outlive the context")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	err := client.GetJSON(context.Background(), "/", nil, nil)
	assert.Error(t, err, "per-attempt timeout should abort slow responses")
}
