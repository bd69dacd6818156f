package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Bucket state lives in a hash with fields tokens and last_refill. Both
// scripts take capacity, refill rate, window seconds and now as ARGV.
var (
	takeScript = redis.NewScript(`
		local key = KEYS[1]
		local capacity = tonumber(ARGV[1])
		local refill_rate = tonumber(ARGV[2])
		local window = tonumber(ARGV[3])
		local now = tonumber(ARGV[4])

		local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
		local tokens = tonumber(bucket[1]) or capacity
		local last_refill = tonumber(bucket[2]) or now

		local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
		if tokens_to_add > 0 then
			tokens = math.min(capacity, tokens + tokens_to_add)
			last_refill = now
		end

		local allowed = 0
		if tokens > 0 then
			tokens = tokens - 1
			allowed = 1
		end

		redis.call('HMSET', key, 'tokens', tokens, 'last_refill', last_refill)
		redis.call('EXPIRE', key, window * 2)
		return allowed
	`)

	peekScript = redis.NewScript(`
		local key = KEYS[1]
		local capacity = tonumber(ARGV[1])
		local refill_rate = tonumber(ARGV[2])
		local window = tonumber(ARGV[3])
		local now = tonumber(ARGV[4])

		local bucket = redis.call('HMGET', key, 'tokens', 'last_refill')
		local tokens = tonumber(bucket[1]) or capacity
		local last_refill = tonumber(bucket[2]) or now

		local tokens_to_add = math.floor(((now - last_refill) / window) * refill_rate)
		if tokens_to_add > 0 then
			tokens = math.min(capacity, tokens + tokens_to_add)
		end
		return tokens
	`)
)

// TokenBucket represents a token bucket rate limiter
type TokenBucket struct {
	redis    *redis.Client
	capacity int64         // Maximum number of tokens
	refill   int64         // Number of tokens to refill per window
	window   time.Duration // Time window for refilling
}

// NewTokenBucket creates a limiter that refills refillRate tokens a minute.
func NewTokenBucket(redisClient *redis.Client, capacity, refillRate int64) *TokenBucket {
	return &TokenBucket{
		redis:    redisClient,
		capacity: capacity,
		refill:   refillRate,
		window:   time.Minute,
	}
}

func key(subject, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, subject)
}

func (tb *TokenBucket) args() []interface{} {
	return []interface{}{tb.capacity, tb.refill, int64(tb.window.Seconds()), time.Now().Unix()}
}

// Capacity is the burst size, reported in X-RateLimit-Limit.
func (tb *TokenBucket) Capacity() int64 {
	return tb.capacity
}

// Window is how long an empty bucket takes to refill.
func (tb *TokenBucket) Window() time.Duration {
	return tb.window
}

// Allow takes one token for subject (a client address) and action. It
// reports false when the bucket is empty.
func (tb *TokenBucket) Allow(ctx context.Context, subject, action string) (bool, error) {
	result, err := takeScript.Run(ctx, tb.redis, []string{key(subject, action)}, tb.args()...).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return result == 1, nil
}

// GetRemaining returns the number of tokens left without taking one.
func (tb *TokenBucket) GetRemaining(ctx context.Context, subject, action string) (int64, error) {
	remaining, err := peekScript.Run(ctx, tb.redis, []string{key(subject, action)}, tb.args()...).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	return remaining, nil
}

// Reset clears the bucket for subject and action.
func (tb *TokenBucket) Reset(ctx context.Context, subject, action string) error {
	return tb.redis.Del(ctx, key(subject, action)).Err()
}
