// Package fetch performs outbound calls to JSON APIs with a per-attempt timeout and
// exponential-backoff retries on transient failures.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client performs requests under a RetryPolicy. It keeps no state between calls and
// is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	policy     RetryPolicy
	timeout    time.Duration
	header     http.Header
	logger     *logrus.Logger
	sleep      Sleeper
}

// ClientOption allows configuring the client
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client (for example an oauth2 client)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPolicy sets the retry policy
func WithPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithDefaultTimeout sets the per-attempt timeout used when a call does not set one
func WithDefaultTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDefaultHeader adds a header sent with every request
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.header.Set(key, value)
	}
}

// WithLogger sets the logger used for retry diagnostics
func WithLogger(logger *logrus.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSleeper replaces the backoff sleeper, mainly for tests
func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) {
		c.sleep = s
	}
}

// NewClient creates a client with the default policy: 3 attempts, 10s per attempt,
// 1s/2s/4s backoff.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		policy:     DefaultPolicy(),
		timeout:    DefaultTimeout,
		header:     make(http.Header),
		logger:     logrus.StandardLogger(),
		sleep:      SleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestConfig struct {
	method   string
	header   http.Header
	body     []byte
	attempts int
	timeout  time.Duration
}

// RequestOption configures a single call
type RequestOption func(*requestConfig)

// WithRetries sets the total number of attempts for this call
func WithRetries(n int) RequestOption {
	return func(rc *requestConfig) {
		rc.attempts = n
	}
}

// WithTimeout sets the per-attempt timeout for this call
func WithTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = d
	}
}

// WithMethod sets the HTTP method (GET by default)
func WithMethod(method string) RequestOption {
	return func(rc *requestConfig) {
		rc.method = method
	}
}

// WithHeader sets a request header, overriding client defaults
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		rc.header.Set(key, value)
	}
}

// WithBody sets the request body; it is replayed on every attempt
func WithBody(body []byte) RequestOption {
	return func(rc *requestConfig) {
		rc.body = body
	}
}

func (c *Client) newRequestConfig(opts []RequestOption) *requestConfig {
	rc := &requestConfig{
		method:   http.MethodGet,
		header:   c.header.Clone(),
		attempts: c.policy.attempts(),
		timeout:  c.timeout,
	}
	for _, opt := range opts {
		opt(rc)
	}
	if rc.attempts < 1 {
		rc.attempts = 1
	}
	return rc
}

// FetchWithRetry performs the request described by url and opts.
//
// Responses below 500 are returned on the spot, 4xx included. A 5xx response is
// retried after the policy's backoff; when attempts run out the last 5xx response is
// returned rather than an error. Transport failures and per-attempt timeouts are
// retried on the same schedule and the last one is returned as a *RequestError.
// The caller must close the returned body.
func (c *Client) FetchWithRetry(ctx context.Context, url string, opts ...RequestOption) (*http.Response, error) {
	rc := c.newRequestConfig(opts)

	if _, err := http.NewRequest(rc.method, url, nil); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < rc.attempts; attempt++ {
		last := attempt == rc.attempts-1

		resp, err := c.do(ctx, url, rc)
		if err == nil {
			if last || !c.policy.ShouldRetryStatus(resp.StatusCode) {
				return resp, nil
			}
			drainAndClose(resp)
			if err := c.backoff(ctx, url, attempt, rc.attempts, logrus.Fields{"status": resp.StatusCode}); err != nil {
				return nil, &RequestError{URL: url, Attempts: attempt + 1, Err: err}
			}
			continue
		}

		if ctx.Err() != nil {
			return nil, &RequestError{URL: url, Attempts: attempt + 1, Err: ctx.Err()}
		}

		lastErr = err
		if last {
			break
		}
		if err := c.backoff(ctx, url, attempt, rc.attempts, logrus.Fields{"error": lastErr.Error()}); err != nil {
			return nil, &RequestError{URL: url, Attempts: attempt + 1, Err: err}
		}
	}

	return nil, &RequestError{URL: url, Attempts: rc.attempts, Err: lastErr}
}

// do performs one attempt bounded by the per-attempt timeout. On success the
// attempt's context lives until the body is closed.
func (c *Client) do(ctx context.Context, url string, rc *requestConfig) (*http.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, rc.timeout)

	var body io.Reader
	if rc.body != nil {
		body = bytes.NewReader(rc.body)
	}

	req, err := http.NewRequestWithContext(attemptCtx, rc.method, url, body)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header = rc.header.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timedOut := errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		cancel()
		if timedOut {
			return nil, &TimeoutError{Timeout: rc.timeout, Err: err}
		}
		return nil, err
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func (c *Client) backoff(ctx context.Context, url string, attempt, attempts int, cause logrus.Fields) error {
	delay := c.policy.DelayFor(attempt)

	c.logger.WithFields(logrus.Fields{
		"attempt":      attempt + 1,
		"max_attempts": attempts,
		"delay":        delay.String(),
		"url":          url,
	}).WithFields(cause).Warn("Request failed, retrying")

	return c.sleep(ctx, delay)
}

// cancelOnClose releases the attempt context once the caller is done with the body
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

func drainAndClose(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()
}
