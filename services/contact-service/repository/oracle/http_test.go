package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/intent"
)

func TestHTTPOracle_Generate(t *testing.T) {
	var gotPrompt, gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		gotPrompt = body["prompt"]
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"{\"intent\":\"read\"}"}`))
	}))
	defer server.Close()

	o := NewHTTPOracle(HTTPConfig{BaseURL: server.URL + "/", Path: "/v1/generate", APIKey: "k"}, logger.NoOpLogger())
	require.True(t, o.Available())

	text, err := o.Generate(context.Background(), "show me everyone")
	require.NoError(t, err)

	assert.Equal(t, `{"intent":"read"}`, text)
	assert.Equal(t, "show me everyone", gotPrompt)
	assert.Equal(t, "Bearer k", gotAuth)
	assert.Equal(t, "/v1/generate", gotPath)
}

func TestHTTPOracle_ErrorStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	o := NewHTTPOracle(HTTPConfig{BaseURL: server.URL}, logger.NoOpLogger())

	_, err := o.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorContains(t, err, "503")
	assert.Equal(t, int32(1), hits.Load(), "status errors are not retried")
}

func TestHTTPOracle_EmptyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer server.Close()

	_, err := NewHTTPOracle(HTTPConfig{BaseURL: server.URL}, logger.NoOpLogger()).Generate(context.Background(), "x")
	assert.Error(t, err)
}

func TestHTTPOracle_WithoutBaseURL(t *testing.T) {
	o := NewHTTPOracle(HTTPConfig{}, nil)

	assert.False(t, o.Available())
	_, err := o.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, intent.ErrOracleUnavailable)
}
