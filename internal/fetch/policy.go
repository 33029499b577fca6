package fetch

import (
	"context"
	"time"
)

const (
	DefaultRetries   = 3
	DefaultTimeout   = 10 * time.Second
	DefaultBaseDelay = time.Second
)

// RetryPolicy decides how many attempts a request gets, how long to wait between
// them and which responses are worth another attempt.
type RetryPolicy struct {
	// Attempts is the total number of attempts, including the first one
	Attempts int
	// Delay returns the wait after the failed attempt with the given zero-based index
	Delay func(attempt int) time.Duration
	// RetryStatus reports whether a response status is transient
	RetryStatus func(status int) bool
}

// DefaultPolicy retries 5xx responses and transport errors three times in total,
// waiting 1s, 2s, 4s, ... between attempts.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:    DefaultRetries,
		Delay:       ExponentialBackoff(DefaultBaseDelay),
		RetryStatus: ServerErrorsOnly,
	}
}

// ExponentialBackoff returns a delay function computing 2^attempt * base
func ExponentialBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		if attempt < 0 {
			attempt = 0
		}
		return base << uint(attempt)
	}
}

// ServerErrorsOnly treats 5xx as transient. Client errors (including 403 rate
// limiting and 404) are never retried.
func ServerErrorsOnly(status int) bool {
	return status >= 500
}

func (p RetryPolicy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}
	return p.Attempts
}

// DelayFor returns the wait after the failed attempt with the given zero-based index
func (p RetryPolicy) DelayFor(attempt int) time.Duration {
	if p.Delay == nil {
		return ExponentialBackoff(DefaultBaseDelay)(attempt)
	}
	return p.Delay(attempt)
}

// ShouldRetryStatus reports whether a response with the given status gets another attempt
func (p RetryPolicy) ShouldRetryStatus(status int) bool {
	if p.RetryStatus == nil {
		return ServerErrorsOnly(status)
	}
	return p.RetryStatus(status)
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real-clock Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
