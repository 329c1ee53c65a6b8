package bbclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, cfg ExecutorConfig) *Executor {
	t.Helper()

	executor, err := NewExecutor(cfg)
	require.NoError(t, err)

	return executor
}

func TestExecutorPostJSON(t *testing.T) {
	t.Run("posts JSON with decorated headers", func(t *testing.T) {
		var (
			gotBody        []byte
			gotContentType string
			gotCustom      string
			gotRequestID   string
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotContentType = r.Header.Get("Content-Type")
			gotCustom = r.Header.Get("BBS-Signature")
			gotRequestID = r.Header.Get("X-Request-ID")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{})

		decorate := func(h http.Header) {
			h.Set("BBS-Signature", "c2ln")
		}

		err := executor.PostJSON(context.Background(), server.URL, map[string]string{"key": "KEY-1"}, decorate, RetryConfig{})
		require.NoError(t, err)

		assert.JSONEq(t, `{"key":"KEY-1"}`, string(gotBody))
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "c2ln", gotCustom)
		assert.NotEmpty(t, gotRequestID)
	})

	t.Run("retries on 429 then succeeds", func(t *testing.T) {
		var requestIDs []string

		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			requestIDs = append(requestIDs, r.Header.Get("X-Request-ID"))

			if attempts < 3 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{})

		err := executor.PostJSON(context.Background(), server.URL, nil, nil, RetryConfig{})
		require.NoError(t, err)

		assert.Equal(t, 3, attempts)

		// All attempts of one call share a request ID.
		assert.Equal(t, requestIDs[0], requestIDs[1])
		assert.Equal(t, requestIDs[0], requestIDs[2])
	})

	t.Run("rate limit exhausts the budget", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{})

		err := executor.PostJSON(context.Background(), server.URL, nil, nil, RetryConfig{MaxAttempts: 2})
		assert.ErrorIs(t, err, ErrRateLimited)
		assert.Equal(t, 2, attempts)
	})

	t.Run("server errors are not retried", func(t *testing.T) {
		attempts := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{})

		err := executor.PostJSON(context.Background(), server.URL, nil, nil, RetryConfig{})
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.Equal(t, 1, attempts)
	})

	t.Run("bearer token auth", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{AccessToken: "tok123"})

		require.NoError(t, executor.PostJSON(context.Background(), server.URL, nil, nil, RetryConfig{}))
		assert.Equal(t, "Bearer tok123", gotAuth)
	})

	t.Run("basic auth", func(t *testing.T) {
		var (
			gotUser string
			gotPass string
			gotOK   bool
		)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotPass, gotOK = r.BasicAuth()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{Username: "ci", Password: "secret"})

		require.NoError(t, executor.PostJSON(context.Background(), server.URL, nil, nil, RetryConfig{}))
		require.True(t, gotOK)
		assert.Equal(t, "ci", gotUser)
		assert.Equal(t, "secret", gotPass)
	})

	t.Run("unencodable body", func(t *testing.T) {
		executor := newTestExecutor(t, ExecutorConfig{})

		err := executor.PostJSON(context.Background(), "http://127.0.0.1:0", func() {}, nil, RetryConfig{})
		var typeErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &typeErr)
	})

	t.Run("cancelled context stops the retry wait", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			// No Retry-After: the default linear backoff applies, long
			// enough for the cancellation to win.
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		executor := newTestExecutor(t, ExecutorConfig{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := executor.PostJSON(ctx, server.URL, nil, nil, RetryConfig{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryConfigAttempts(t *testing.T) {
	assert.Equal(t, DefaultRetryAttempts, RetryConfig{}.attempts())
	assert.Equal(t, DefaultRetryAttempts, RetryConfig{MaxAttempts: -1}.attempts())
	assert.Equal(t, 5, RetryConfig{MaxAttempts: 5}.attempts())
}
