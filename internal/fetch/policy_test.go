package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoff(t *testing.T) {
	delay := ExponentialBackoff(time.Second)

	assert.Equal(t, time.Second, delay(0))
	assert.Equal(t, 2*time.Second, delay(1))
	assert.Equal(t, 4*time.Second, delay(2))
	assert.Equal(t, 8*time.Second, delay(3))
	assert.Equal(t, time.Second, delay(-1))
}

func TestRetryPolicy_ShouldRetryStatus(t *testing.T) {
	policy := DefaultPolicy()

	for status := 200; status < 500; status++ {
		assert.False(t, policy.ShouldRetryStatus(status), "status %d", status)
	}
	for status := 500; status < 600; status++ {
		assert.True(t, policy.ShouldRetryStatus(status), "status %d", status)
	}
}

func TestRetryPolicy_ZeroValue(t *testing.T) {
	var policy RetryPolicy

	assert.Equal(t, 1, policy.attempts())
	assert.Equal(t, time.Second, policy.DelayFor(0))
	assert.Equal(t, 4*time.Second, policy.DelayFor(2))
	assert.True(t, policy.ShouldRetryStatus(503))
	assert.False(t, policy.ShouldRetryStatus(404))
}

func TestRetryPolicy_Custom(t *testing.T) {
	policy := RetryPolicy{
		Attempts:    5,
		Delay:       func(int) time.Duration { return 10 * time.Millisecond },
		RetryStatus: func(status int) bool { return status == 429 },
	}

	assert.Equal(t, 5, policy.attempts())
	assert.Equal(t, 1, RetryPolicy{Attempts: 0}.attempts())
	assert.Equal(t, 10*time.Millisecond, policy.DelayFor(3))
	assert.True(t, policy.ShouldRetryStatus(429))
	assert.False(t, policy.ShouldRetryStatus(500))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, SleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, SleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}
