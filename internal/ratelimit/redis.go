package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "beacon:ratelimit:"

// RedisStore shares windows between replicas. Every request is counted, so a
// client that keeps retrying while limited stays limited until the key expires.
type RedisStore struct {
	rdb    goredis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisStore(rdb goredis.Cmdable, limit int, windowSize time.Duration) *RedisStore {
	if rdb == nil {
		panic("ratelimit: redis client must not be nil")
	}
	if limit <= 0 {
		panic("ratelimit: limit must be positive")
	}
	if windowSize <= 0 {
		panic("ratelimit: window must be positive")
	}
	return &RedisStore{rdb: rdb, limit: limit, window: windowSize, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := keyPrefix + key

	var incr *goredis.IntCmd
	var ttl *goredis.DurationCmd
	if _, err := s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	}); err != nil {
		return Decision{}, fmt.Errorf("rate limit counter %q: %w", key, err)
	}

	count := incr.Val()
	remainingTTL := ttl.Val()
	// A key without expiry was just created (or lost its TTL); start its window now.
	if remainingTTL < 0 {
		if err := s.rdb.PExpire(ctx, redisKey, s.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("rate limit window %q: %w", key, err)
		}
		remainingTTL = s.window
	}

	d := Decision{
		Limit:   s.limit,
		Allowed: count <= int64(s.limit),
		ResetAt: s.now().Add(remainingTTL),
	}
	if d.Allowed {
		d.Remaining = s.limit - int(count)
	}
	return d, nil
}
