package bbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"
)

// DefaultRetryAttempts is the total number of attempts made when the
// server responds with 429 Too Many Requests.
const DefaultRetryAttempts = 3

// maxRetryAfter caps how long a single Retry-After wait can be.
const maxRetryAfter = 30 * time.Second

// RetryConfig bounds retries on rate-limit responses. Only 429 responses
// are retried; every other status is terminal.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Zero or negative means DefaultRetryAttempts.
	MaxAttempts int
}

func (c RetryConfig) attempts() int {
	if c.MaxAttempts <= 0 {
		return DefaultRetryAttempts
	}

	return c.MaxAttempts
}

// RequestExecutor delivers a build-status request. Implementations own
// serialization, authentication, timeouts, and the retry policy; the
// client's responsibility ends at handing over a fully-addressed request
// with its header decorator.
type RequestExecutor interface {
	PostJSON(ctx context.Context, url string, body any, decorate func(http.Header), retry RetryConfig) error
}

// ExecutorConfig configures an Executor.
type ExecutorConfig struct {
	// Transport overrides the HTTP transport, e.g. for proxy or TLS
	// settings. When nil a fresh transport with HTTP/2 enabled is used.
	Transport *http.Transport

	// Timeout bounds each individual attempt. Zero means 30 seconds.
	Timeout time.Duration

	// AccessToken, when set, is sent as a bearer token.
	AccessToken string

	// Username and Password, when set and no AccessToken is given, are
	// sent as HTTP basic auth.
	Username string
	Password string

	// Logger is used for structured logging. If nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// Executor posts JSON payloads over HTTP with a bounded retry on
// rate-limit responses. Safe for concurrent use.
type Executor struct {
	client   *http.Client
	token    string
	username string
	password string
	logger   *slog.Logger
}

// NewExecutor creates an Executor from cfg.
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		}
	}

	if err := http2.ConfigureTransport(transport); err != nil {
		return nil, fmt.Errorf("bbclient: configuring http/2: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		token:    cfg.AccessToken,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger,
	}, nil
}

// PostJSON serializes body as JSON and posts it to url. The decorate
// callback, when non-nil, may add headers to the request. 429 responses
// are retried up to the retry budget, honoring Retry-After; any other
// non-2xx response returns ErrUnexpectedStatus.
//
// All attempts in one call share an X-Request-ID so the server can
// correlate retries.
func (e *Executor) PostJSON(ctx context.Context, url string, body any, decorate func(http.Header), retry RetryConfig) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("bbclient: encoding request body: %w", err)
	}

	requestID := uuid.New().String()
	attempts := retry.attempts()

	for attempt := 1; attempt <= attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("bbclient: building request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		e.setAuth(req)

		if decorate != nil {
			decorate(req.Header)
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return fmt.Errorf("bbclient: posting to %s: %w", url, err)
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt == attempts {
				return fmt.Errorf("%w: gave up after %d attempts", ErrRateLimited, attempts)
			}

			wait := retryAfter(resp, attempt)
			e.logger.Warn("rate limited, retrying",
				"url", url,
				"attempt", attempt,
				"wait", wait)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}

			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
		}

		return nil
	}

	return fmt.Errorf("%w: gave up after %d attempts", ErrRateLimited, attempts)
}

func (e *Executor) setAuth(req *http.Request) {
	switch {
	case e.token != "":
		req.Header.Set("Authorization", "Bearer "+e.token)
	case e.username != "":
		req.SetBasicAuth(e.username, e.password)
	}
}

// retryAfter returns how long to wait before the next attempt. A valid
// Retry-After header in seconds wins, capped at maxRetryAfter; otherwise
// the wait grows linearly with the attempt number.
func retryAfter(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds >= 0 {
			return min(time.Duration(seconds)*time.Second, maxRetryAfter)
		}
	}

	return time.Duration(attempt) * time.Second
}
