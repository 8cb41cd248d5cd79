package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/entity"
	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/service/report"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

const cleanupInterval = 10 * time.Minute

// ReportCache reads Redis first and memory second. Writes go to both layers.
// A nil Redis client leaves the memory layer alone.
type ReportCache struct {
	redis  *redis.Client
	memory *gocache.Cache
}

func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{
		redis:  client,
		memory: gocache.New(report.CacheTTL, cleanupInterval),
	}
}

func (c *ReportCache) Get(ctx context.Context, key string) (entity.Report, error) {
	if c.redis != nil {
		raw, err := c.redis.Get(ctx, key).Bytes()

		switch {
		case err == nil:
			var r entity.Report
			if err := json.Unmarshal(raw, &r); err == nil {
				return r, nil
			}

			logger(ctx).Warn("cached report is corrupt, dropping", logx.Error(err))
			_ = c.redis.Del(ctx, key).Err()
		case !errors.Is(err, redis.Nil):
			logger(ctx).Warn("redis.Get", logx.Error(err))
		}
	}

	if v, ok := c.memory.Get(key); ok {
		if r, ok := v.(entity.Report); ok {
			return r, nil
		}
	}

	return entity.Report{}, report.ErrCacheMiss
}

func (c *ReportCache) Set(ctx context.Context, key string, r entity.Report, ttl time.Duration) error {
	c.memory.Set(key, r, ttl)

	if c.redis == nil {
		return nil
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis.Set: %w", err)
	}

	return nil
}

func (c *ReportCache) Delete(ctx context.Context, key string) error {
	c.memory.Delete(key)

	if c.redis == nil {
		return nil
	}

	if err := c.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis.Del: %w", err)
	}

	return nil
}

// Len counts entries in the memory layer.
func (c *ReportCache) Len() int {
	return c.memory.ItemCount()
}
