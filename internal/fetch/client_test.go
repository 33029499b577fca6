package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper captures backoff delays instead of sleeping
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func (s *recordingSleeper) recorded() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server, *recordingSleeper) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sleeper := &recordingSleeper{}
	client := NewClient(
		WithHTTPClient(server.Client()),
		WithLogger(quietLogger()),
		WithSleeper(sleeper.sleep),
	)
	return client, server, sleeper
}

func TestFetchWithRetry_Success(t *testing.T) {
	var hits int32
	client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	resp, err := client.FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Empty(t, sleeper.recorded())
}

func TestFetchWithRetry_ClientErrorsAreNotRetried(t *testing.T) {
	statuses := []int{400, 401, 403, 404, 409, 422, 429, 451, 499}

	for _, status := range statuses {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			var hits int32
			client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(status)
			})

			resp, err := client.FetchWithRetry(context.Background(), server.URL)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
			assert.Empty(t, sleeper.recorded())
		})
	}
}

func TestFetchWithRetry_ServerErrorsRetriedWithBackoff(t *testing.T) {
	for _, status := range []int{500, 502, 503, 504} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			var hits int32
			client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&hits, 1)
				w.WriteHeader(status)
			})

			resp, err := client.FetchWithRetry(context.Background(), server.URL)
			require.NoError(t, err, "the last failing response is returned, not an error")
			defer resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
			assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.recorded())
		})
	}
}

func TestFetchWithRetry_RetriesOption(t *testing.T) {
	var hits int32
	client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	resp, err := client.FetchWithRetry(context.Background(), server.URL, WithRetries(4))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, int32(4), atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, sleeper.recorded())
}

func TestFetchWithRetry_RecoversAfterServerError(t *testing.T) {
	var hits int32
	client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.FetchWithRetry(context.Background(), server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
	assert.Len(t, sleeper.recorded(), 2)
}

func TestFetchWithRetry_NetworkError(t *testing.T) {
	client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	url := server.URL
	server.Close() // Force network error

	resp, err := client.FetchWithRetry(context.Background(), url)
	require.Error(t, err)
	assert.Nil(t, resp)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, 3, reqErr.Attempts)
	assert.Equal(t, url, reqErr.URL)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.recorded())
}

func TestFetchWithRetry_TimeoutCountsAsFailedAttempt(t *testing.T) {
	var hits int32
	client, server, sleeper := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	_, err := client.FetchWithRetry(context.Background(), server.URL,
		WithTimeout(30*time.Millisecond),
		WithRetries(2),
	)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 30*time.Millisecond, timeoutErr.Timeout)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	assert.Equal(t, []time.Duration{time.Second}, sleeper.recorded())
}

func TestFetchWithRetry_TimeoutThenSuccess(t *testing.T) {
	var hits int32
	client, server, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			<-r.Context().Done()
			return
		}
		w.Write([]byte(`{"ok":true}`))
	})

	resp, err := client.FetchWithRetry(context.Background(), server.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(
		WithHTTPClient(server.Client()),
		WithLogger(quietLogger()),
		WithSleeper(func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	_, err := client.FetchWithRetry(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchWithRetry_HeadersAndBodyReplayed(t *testing.T) {
	var hits int32
	var bodies []string
	var mu sync.Mutex

	client, server, _ := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "repo-insights", r.Header.Get("User-Agent"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))

		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()

		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	WithDefaultHeader("User-Agent", "repo-insights")(client)

	resp, err := client.FetchWithRetry(context.Background(), server.URL,
		WithMethod(http.MethodPost),
		WithHeader("X-Test", "yes"),
		WithBody([]byte(`{"a":1}`)),
	)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{`{"a":1}`, `{"a":1}`}, bodies)
}

func TestFetchWithRetry_InvalidURL(t *testing.T) {
	client := NewClient(WithLogger(quietLogger()))

	_, err := client.FetchWithRetry(context.Background(), "://bad url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid request")
}
