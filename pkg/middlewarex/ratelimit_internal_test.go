package middlewarex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterCleanup(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.limiter("ip:198.51.100.1")

	now = now.Add(limiterIdleTTL + time.Minute)
	rl.limiter("ip:198.51.100.2")

	rq.Equal(1, rl.Cleanup())
	rq.Equal(1, rl.Len())
}
