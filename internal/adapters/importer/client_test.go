package importer

import (
	"context"
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

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string, retry RetryConfig) *Client {
	t.Helper()

	client, err := NewClient(&ClientConfig{
		BaseURL:      baseURL,
		ProviderName: "test-provider",
		Timeout:      2 * time.Second,
		Retry:        retry,
		Breaker: BreakerConfig{
			MaxFailures:   3,
			Cooldown:      time.Minute,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	})
	require.NoError(t, err)

	return client
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *ClientConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "missing base URL", cfg: &ClientConfig{ProviderName: "p"}},
		{name: "missing provider name", cfg: &ClientConfig{BaseURL: "http://localhost"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quotes", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{MaxAttempts: 1})

	resp, err := client.Get(context.Background(), "/quotes")
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	})

	resp, err := client.Get(context.Background(), "/quotes")
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, int32(3), calls.Load())
}

func TestClientExhaustsRetries(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	})

	_, err := client.Get(context.Background(), "/quotes")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMaxRetriesExceeded)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		Multiplier:      2,
	})

	resp, err := client.Get(context.Background(), "/quotes")
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	// 4xx is returned to the caller, not retried.
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientCircuitOpensAndBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{
		MaxAttempts:     1,
		InitialInterval: time.Millisecond,
		Multiplier:      2,
	})

	for i := 0; i < 3; i++ {
		_, err := client.Get(context.Background(), "/quotes")
		require.Error(t, err)
	}

	assert.Equal(t, StateOpen, client.CircuitState())

	_, err := client.Get(context.Background(), "/quotes")
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestClientContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, RetryConfig{
		MaxAttempts:     5,
		InitialInterval: time.Hour,
		Multiplier:      2,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Get(ctx, "/quotes")
	require.Error(t, err)
}

func TestBackoffIsCappedAtMaxInterval(t *testing.T) {
	client := newTestClient(t, "http://localhost", RetryConfig{
		MaxAttempts:     5,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     200 * time.Millisecond,
		Multiplier:      10,
	})

	// Attempt 4 would be 100ms * 10^3 without the cap. With ±25%
	// jitter the result stays within [150ms, 250ms).
	backoff := client.backoff(4)
	assert.GreaterOrEqual(t, backoff, 150*time.Millisecond)
	assert.Less(t, backoff, 250*time.Millisecond)
}
