package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionLimiter(t *testing.T) {
	t.Run("successful submissions use up the burst", func(t *testing.T) {
		limiter := NewSubmissionLimiter(time.Hour, 2, time.Minute)

		for i := 0; i < 2; i++ {
			done, ok := limiter.Begin("alice@test.tld")
			require.True(t, ok)
			done(true)
		}
		_, ok := limiter.Begin("alice@test.tld")
		assert.False(t, ok)

		// employees are throttled independently
		done, ok := limiter.Begin("bob@test.tld")
		require.True(t, ok)
		done(true)
	})

	t.Run("failed submissions keep the token", func(t *testing.T) {
		limiter := NewSubmissionLimiter(time.Hour, 1, time.Minute)

		for i := 0; i < 3; i++ {
			done, ok := limiter.Begin("alice@test.tld")
			require.True(t, ok, "attempt %d", i)
			done(false)
		}

		done, ok := limiter.Begin("alice@test.tld")
		require.True(t, ok)
		done(true)

		_, ok = limiter.Begin("alice@test.tld")
		assert.False(t, ok)
	})

	t.Run("one submission in flight per employee", func(t *testing.T) {
		limiter := NewSubmissionLimiter(time.Hour, 5, time.Minute)

		done, ok := limiter.Begin("alice@test.tld")
		require.True(t, ok)

		_, ok = limiter.Begin("alice@test.tld")
		assert.False(t, ok)

		done(false)
		done, ok = limiter.Begin("alice@test.tld")
		require.True(t, ok)
		done(true)
	})
}
