package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

// usageTTL outlives the longest month so a counter never expires mid-period.
const usageTTL = 32 * 24 * time.Hour

// UsageCounter counts anonymous report usage. With Redis it uses INCR and DECR;
// without it, a mutex-guarded go-cache.
type UsageCounter struct {
	redis  *redis.Client
	mu     sync.Mutex
	memory *gocache.Cache
}

func NewUsageCounter(client *redis.Client) *UsageCounter {
	return &UsageCounter{
		redis:  client,
		memory: gocache.New(usageTTL, time.Hour),
	}
}

func usageKey(subject, period string) string {
	return "usage:" + subject + ":" + period
}

func (c *UsageCounter) Acquire(ctx context.Context, subject, period string, limit int) (int, bool, error) {
	key := usageKey(subject, period)

	if c.redis == nil {
		used, ok := c.acquireMemory(key, limit)
		return used, ok, nil
	}

	used, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, false, fmt.Errorf("redis.Incr: %w", err)
	}

	if used == 1 {
		if err := c.redis.Expire(ctx, key, usageTTL).Err(); err != nil {
			logger(ctx).Warn("redis.Expire", slog.String("key", key), logx.Error(err))
		}
	}

	if int(used) > limit {
		if err := c.redis.Decr(ctx, key).Err(); err != nil {
			return 0, false, fmt.Errorf("redis.Decr: %w", err)
		}

		return int(used) - 1, false, nil
	}

	return int(used), true, nil
}

func (c *UsageCounter) Release(ctx context.Context, subject, period string) error {
	key := usageKey(subject, period)

	if c.redis == nil {
		c.mu.Lock()
		defer c.mu.Unlock()

		if used := c.usedMemory(key); used > 0 {
			c.memory.SetDefault(key, used-1)
		}

		return nil
	}

	used, err := c.redis.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis.Decr: %w", err)
	}

	if used < 0 {
		if err := c.redis.Set(ctx, key, 0, usageTTL).Err(); err != nil {
			return fmt.Errorf("redis.Set: %w", err)
		}
	}

	return nil
}

func (c *UsageCounter) Used(ctx context.Context, subject, period string) (int, error) {
	key := usageKey(subject, period)

	if c.redis == nil {
		c.mu.Lock()
		defer c.mu.Unlock()

		return c.usedMemory(key), nil
	}

	used, err := c.redis.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("redis.Get: %w", err)
	}

	return used, nil
}

func (c *UsageCounter) acquireMemory(key string, limit int) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	used := c.usedMemory(key)
	if used >= limit {
		return used, false
	}

	c.memory.SetDefault(key, used+1)

	return used + 1, true
}

func (c *UsageCounter) usedMemory(key string) int {
	if v, ok := c.memory.Get(key); ok {
		if n, ok := v.(int); ok {
			return n
		}
	}

	return 0
}
