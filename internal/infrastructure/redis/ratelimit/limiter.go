package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/redis"
	"github.com/oklog/ulid/v2"
	v9 "github.com/redis/go-redis/v9"
)

// KeyPrefix prefixes every rate window key.
const KeyPrefix = "ratelimit:"

// ARGV: now ms, window ms, max requests, member. Reply: {allowed, remaining, reset ms}.
var slidingWindowScript = v9.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)

if count >= limit then
	local reset = now + window
	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if oldest[2] then
		reset = tonumber(oldest[2]) + window
	end
	return {0, 0, reset}
end

redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, limit - count - 1, now + window}
`)

// Key returns the Redis key of the window for identity under policy.
func Key(policy Policy, identity string) string {
	return KeyPrefix + policy.Name + ":" + identity
}

// Option configures a limiter.
type Option func(*limiter)

// WithClock replaces the wall clock used to score requests.
func WithClock(now func() time.Time) Option {
	return func(l *limiter) {
		l.now = now
	}
}

type limiter struct {
	client redis.Client
	logger logger.Interface
	now    func() time.Time
}

// NewLimiter creates a sliding window limiter on top of client.
func NewLimiter(client redis.Client, logger logger.Interface, opts ...Option) Limiter {
	l := &limiter{
		client: client,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *limiter) CheckAndRecord(ctx context.Context, identity string, policy Policy) (*Admission, error) {
	nowMs := l.now().UnixMilli()
	member := fmt.Sprintf("%d-%s", nowMs, ulid.Make())

	reply, err := l.client.RunScript(ctx, slidingWindowScript, []string{Key(policy, identity)},
		nowMs,
		policy.Window.Milliseconds(),
		policy.MaxRequests,
		member,
	)
	if err != nil {
		return nil, err
	}

	values, ok := reply.([]any)
	if !ok || len(values) != 3 {
		return nil, l.unexpectedReply(ctx, policy, reply)
	}
	allowed, ok1 := values[0].(int64)
	remaining, ok2 := values[1].(int64)
	resetMs, ok3 := values[2].(int64)
	if !ok1 || !ok2 || !ok3 {
		return nil, l.unexpectedReply(ctx, policy, reply)
	}

	admission := &Admission{
		Allowed:   allowed == 1,
		Remaining: remaining,
		ResetTime: time.UnixMilli(resetMs).UTC(),
	}

	if !admission.Allowed {
		l.logger.InfoContext(ctx, "Rate limit exceeded", logger.Field{
			Key:   "policy",
			Value: policy.Name,
		}, logger.Field{
			Key:   "identity",
			Value: identity,
		})
	}

	return admission, nil
}

func (l *limiter) unexpectedReply(ctx context.Context, policy Policy, reply any) error {
	err := errors.NewErrorDetails("Unexpected rate limit script reply", string(errors.RateLimitError), policy.Name)
	l.logger.ErrorContext(ctx, err, logger.Field{
		Key:   "reply",
		Value: reply,
	})
	return err
}
