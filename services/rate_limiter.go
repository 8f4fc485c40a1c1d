package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type RateLimiterConfig struct {
	MaxAttempts int
	Window      time.Duration
}

type redisRateLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewRateLimiter(client *redis.Client, config RateLimiterConfig) RateLimiter {
	return &redisRateLimiter{
		client:      client,
		maxAttempts: config.MaxAttempts,
		window:      config.Window,
	}
}

// Sliding window over a sorted set scored by unix time. Members carry the
// nanosecond timestamp so two hits in the same second stay distinct.
var slidingWindowScript = redis.NewScript(`
	redis.call('ZREMRANGEBYSCORE', KEYS[1], 0, ARGV[1])

	local count = redis.call('ZCARD', KEYS[1])
	if count >= tonumber(ARGV[3]) then
		return 0
	end

	redis.call('ZADD', KEYS[1], ARGV[2], ARGV[2] .. ':' .. ARGV[5])
	redis.call('EXPIRE', KEYS[1], ARGV[4])
	return 1
`)

// Allow checks if the action is allowed for the given key
func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()
	windowStart := now.Unix() - int64(r.window.Seconds())

	result, err := slidingWindowScript.Run(ctx, r.client, []string{key},
		windowStart,
		now.Unix(),
		r.maxAttempts,
		int(r.window.Seconds()),
		now.UnixNano(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	return result == 1, nil
}

// Reset resets the rate limit for the given key
func (r *redisRateLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
