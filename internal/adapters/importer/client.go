// Package importer fetches quotes from an external provider and
// translates them into domain quotes for bulk loading.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/quoteshorts/api/internal/adapters/importer"

	// backoffJitterFactor is the jitter percentage for backoff (±25%).
	backoffJitterFactor = 0.25

	defaultTimeout = 30 * time.Second

	transportMaxIdleConns    = 10
	transportIdleConnTimeout = 90 * time.Second
)

var (
	// ErrCircuitOpen is returned while the provider circuit is open.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded is returned after all attempts failed.
	// The last attempt's error is wrapped.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// RetryConfig configures retry behavior for provider requests.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialInterval is the backoff before the first retry.
	InitialInterval time.Duration

	// MaxInterval caps the backoff between retries.
	MaxInterval time.Duration

	// Multiplier grows the backoff between successive retries.
	Multiplier float64
}

// ClientConfig configures the provider HTTP client.
type ClientConfig struct {
	// BaseURL is the provider's base URL, without a trailing slash.
	BaseURL string

	// ProviderName identifies the provider in logs and traces.
	ProviderName string

	// Timeout is the per-attempt request timeout.
	Timeout time.Duration

	Retry   RetryConfig
	Breaker BreakerConfig

	// Logger defaults to slog.Default when nil.
	Logger *slog.Logger
}

// Client is the HTTP client for the external quote provider. It wraps
// each request with retry, circuit breaking and a client span.
type Client struct {
	http         *http.Client
	baseURL      string
	providerName string
	retry        RetryConfig
	logger       *slog.Logger
	breaker      *Breaker
	tracer       trace.Tracer
}

// NewClient creates a provider client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	if cfg.ProviderName == "" {
		return nil, errors.New("provider name is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(
		slog.String("component", "importer.Client"),
		slog.String("provider", cfg.ProviderName),
	)

	breaker := NewBreaker(cfg.Breaker)
	breaker.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return &Client{
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    transportMaxIdleConns,
				IdleConnTimeout: transportIdleConnTimeout,
			},
		},
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		providerName: cfg.ProviderName,
		retry:        cfg.Retry,
		logger:       logger,
		breaker:      breaker,
		tracer:       otel.Tracer(instrumentationName),
	}, nil
}

// Get performs a GET against the provider with retry and circuit
// breaking. The caller owns the response body.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if !c.breaker.Allow() {
		c.logger.Warn("request blocked by circuit breaker", slog.String("path", path))
		return nil, ErrCircuitOpen
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	ctx, span := c.tracer.Start(ctx, fmt.Sprintf("HTTP GET %s", c.providerName),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.providerName),
		),
	)
	defer span.End()

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.breaker.RecordFailure()
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("provider request failed",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %v", ErrMaxRetriesExceeded, err)
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return resp, nil
}

// CircuitState returns the breaker's current state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempts := c.retry.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := c.backoff(attempt)
			c.logger.Debug("retrying provider request",
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))
		if err != nil {
			lastErr = err
			if isRetryable(err) {
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("provider error: %d", resp.StatusCode)
			_ = resp.Body.Close()
			continue
		}

		return resp, nil
	}

	return nil, lastErr
}

// backoff returns the exponential backoff with jitter for an attempt.
func (c *Client) backoff(attempt int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(c.retry.Multiplier, float64(attempt-1))

	if max := float64(c.retry.MaxInterval); c.retry.MaxInterval > 0 && d > max {
		d = max
	}

	// Symmetric jitter in [-25%, +25%).
	jitter := d * backoffJitterFactor * (rand.Float64()*2 - 1)

	return time.Duration(d + jitter)
}

// isRetryable reports whether an error is worth another attempt.
// Context cancellation is terminal, network timeouts and connection
// failures are transient.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
