package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pitch-booking/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisSlotCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSlotCache(client redis.Cmdable, ttl time.Duration, log *zap.Logger) SlotCache {
	return &redisSlotCache{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("cache", "slots")),
	}
}

// NewRedisClient parses a redis:// URL and checks connectivity.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (c *redisSlotCache) Get(ctx context.Context, pitchID uuid.UUID, date, period string) (*Availability, bool) {
	key := SlotKey(pitchID, date, period)

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Slot cache read failed", zap.Error(err), zap.String("key", key))
		}
		metrics.SlotCacheLookup(false)
		return nil, false
	}

	var a Availability
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		c.log.Warn("Slot cache entry is corrupt", zap.Error(err), zap.String("key", key))
		metrics.SlotCacheLookup(false)
		return nil, false
	}

	metrics.SlotCacheLookup(true)
	return &a, true
}

func (c *redisSlotCache) Set(ctx context.Context, pitchID uuid.UUID, date, period string, a *Availability) {
	key := SlotKey(pitchID, date, period)

	data, err := json.Marshal(a)
	if err != nil {
		c.log.Warn("Slot cache encode failed", zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, string(data), c.ttl).Err(); err != nil {
		c.log.Warn("Slot cache write failed", zap.Error(err), zap.String("key", key))
	}
}

func (c *redisSlotCache) Invalidate(ctx context.Context, pitchID uuid.UUID, date string) {
	keys := make([]string, len(Periods))
	for i, p := range Periods {
		keys[i] = SlotKey(pitchID, date, p)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Slot cache invalidation failed",
			zap.Error(err),
			zap.String("pitch_id", pitchID.String()),
			zap.String("date", date),
		)
	}
}

func (c *redisSlotCache) InvalidatePitch(ctx context.Context, pitchID uuid.UUID) {
	pattern := fmt.Sprintf("slots:%s:*", pitchID)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			c.log.Warn("Slot cache scan failed", zap.Error(err), zap.String("pitch_id", pitchID.String()))
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				c.log.Warn("Slot cache invalidation failed", zap.Error(err), zap.String("pitch_id", pitchID.String()))
				return
			}
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
