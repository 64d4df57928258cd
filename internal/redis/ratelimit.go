package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting keys follow ratelimit:{user_id}:{action}, one counter
// per actor per action kind with the window as TTL.

// Action describes one throttled action kind.
type Action struct {
	Name   string
	Limit  int
	Window time.Duration
}

// ActionMessageSend throttles message sends; checked before any
// access-control or content-guard work so abuse stays cheap to reject.
var ActionMessageSend = Action{Name: "message_send", Limit: 60, Window: 60 * time.Second}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed    bool          // Whether the action is allowed
	Remaining  int           // Remaining actions in the window
	RetryAfter time.Duration // Time until the window resets
	Limit      int           // The limit for this action
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *goredis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow checks and consumes one unit of the actor's quota for the given
// action. The check and increment run in one Lua script so two
// concurrent sends cannot both slip past the boundary.
func (r *RateLimiter) Allow(ctx context.Context, userID string, action Action) (*RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, action.Name)
	return r.checkLimit(ctx, key, action.Limit, action.Window)
}

// checkLimit performs the actual rate limit check using a sliding window counter
func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	script := goredis.NewScript(`
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local window = tonumber(ARGV[2])

		local current = redis.call('GET', key)
		if current == false then
			current = 0
		else
			current = tonumber(current)
		end

		local ttl = redis.call('TTL', key)
		if ttl < 0 then
			ttl = window
		end

		if current < limit then
			redis.call('INCR', key)
			if ttl == window then
				redis.call('EXPIRE', key, window)
			end
			return {1, limit - current - 1, ttl}
		else
			return {0, 0, ttl}
		end
	`)

	result, err := script.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Result()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	allowed := resultSlice[0].(int64) == 1
	remaining := int(resultSlice[1].(int64))
	retryAfter := time.Duration(resultSlice[2].(int64)) * time.Second

	return &RateLimitResult{
		Allowed:    allowed,
		Remaining:  remaining,
		RetryAfter: retryAfter,
		Limit:      limit,
	}, nil
}

// Reset resets the rate limit for a specific actor/action (admin operation)
func (r *RateLimiter) Reset(ctx context.Context, userID string, action Action) error {
	key := fmt.Sprintf("ratelimit:%s:%s", userID, action.Name)
	return r.client.Del(ctx, key).Err()
}
