package stock

import (
	"context"
	"strconv"
	"time"

	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/redis"
	v9 "github.com/redis/go-redis/v9"
)

// KeyPrefix prefixes every stock counter key.
const KeyPrefix = "stock:"

// Script replies: {0, 0} missing key, {1, current} not enough units, {2, remaining} taken.
var decrementScript = v9.NewScript(`
local current = redis.call('GET', KEYS[1])
if not current then
	return {0, 0}
end
current = tonumber(current)
local amount = tonumber(ARGV[1])
if current < amount then
	return {1, current}
end
return {2, redis.call('DECRBY', KEYS[1], amount)}
`)

// Key returns the Redis key holding the cached stock of itemID.
func Key(itemID string) string {
	return KeyPrefix + itemID
}

type cache struct {
	client redis.Client
	logger logger.Interface
}

// NewCache creates a stock cache on top of client.
func NewCache(client redis.Client, logger logger.Interface) Cache {
	return &cache{
		client: client,
		logger: logger,
	}
}

func (c *cache) Get(ctx context.Context, itemID string) (int64, bool, error) {
	raw, err := c.client.Get(ctx, Key(itemID))
	if err != nil {
		return 0, false, err
	}
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, errors.NewErrorDetails("Cached stock is not an integer: "+raw, string(errors.StockCacheError), itemID)
	}
	return value, true, nil
}

func (c *cache) DecrementIfAvailable(ctx context.Context, itemID string, amount int64) (Outcome, error) {
	reply, err := c.client.RunScript(ctx, decrementScript, []string{Key(itemID)}, amount)
	if err != nil {
		return Outcome{}, err
	}

	values, ok := reply.([]any)
	if !ok || len(values) != 2 {
		return Outcome{}, c.unexpectedReply(ctx, itemID, reply)
	}
	code, okCode := values[0].(int64)
	value, okValue := values[1].(int64)
	if !okCode || !okValue {
		return Outcome{}, c.unexpectedReply(ctx, itemID, reply)
	}

	switch code {
	case 0:
		return Outcome{Kind: NotCached}, nil
	case 1:
		return Outcome{Kind: Insufficient}, nil
	case 2:
		return Outcome{Kind: Decremented, Remaining: value}, nil
	default:
		return Outcome{}, c.unexpectedReply(ctx, itemID, reply)
	}
}

func (c *cache) unexpectedReply(ctx context.Context, itemID string, reply any) error {
	err := errors.NewErrorDetails("Unexpected stock script reply", string(errors.StockCacheError), itemID)
	c.logger.ErrorContext(ctx, err, logger.Field{
		Key:   "reply",
		Value: reply,
	})
	return err
}

func (c *cache) Increment(ctx context.Context, itemID string, amount int64) (int64, error) {
	return c.client.IncrBy(ctx, Key(itemID), amount)
}

func (c *cache) SetIfAbsent(ctx context.Context, itemID string, value int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, Key(itemID), value, ttl)
}

func (c *cache) Set(ctx context.Context, itemID string, value int64, ttl time.Duration) error {
	return c.client.Set(ctx, Key(itemID), value, ttl)
}
