package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	v9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConnectedClient(t *testing.T) (Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	config := DefaultConfig()
	config.Addrs = []string{server.Addr()}

	c := NewClient(logger.NewNop(), config)
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() {
		_ = c.Disconnect(context.Background())
	})

	return c, server
}

func TestClient_ConnectValidation(t *testing.T) {
	testCases := []struct {
		name   string
		config func() *Config
	}{
		{name: "nil config", config: func() *Config { return nil }},
		{name: "no addresses", config: func() *Config {
			c := DefaultConfig()
			c.Addrs = nil
			return c
		}},
		{name: "invalid mode", config: func() *Config {
			c := DefaultConfig()
			c.Mode = "sentinel"
			return c
		}},
		{name: "invalid pool size", config: func() *Config {
			c := DefaultConfig()
			c.PoolSize = 0
			return c
		}},
		{name: "negative idle connections", config: func() *Config {
			c := DefaultConfig()
			c.MaxIdleConns = -1
			return c
		}},
		{name: "negative retry backoff", config: func() *Config {
			c := DefaultConfig()
			c.MinRetryBackoff = -time.Second
			return c
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClient(logger.NewNop(), tc.config())
			err := c.Connect(context.Background())
			require.Error(t, err)
			assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConfigError)))
		})
	}
}

func TestClient_ConnectUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	config := DefaultConfig()
	config.Addrs = []string{addr}
	config.MaxRetries = 0
	config.ConnectTimeout = 200 * time.Millisecond

	c := NewClient(logger.NewNop(), config)
	err := c.Connect(context.Background())
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConnectionError)))
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(logger.NewNop(), DefaultConfig())

	_, err := c.Get(context.Background(), "stock:1")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisConnectionError)))
	assert.NoError(t, c.Disconnect(context.Background()))
}

func TestClient_Commands(t *testing.T) {
	ctx := context.Background()
	c, server := newConnectedClient(t)

	require.NoError(t, c.Ping(ctx))

	val, err := c.Get(ctx, "stock:missing")
	require.NoError(t, err)
	assert.Equal(t, "", val)

	require.NoError(t, c.Set(ctx, "stock:1", 10, time.Minute))
	val, err = c.Get(ctx, "stock:1")
	require.NoError(t, err)
	assert.Equal(t, "10", val)
	assert.Equal(t, time.Minute, server.TTL("stock:1"))

	ok, err := c.SetNX(ctx, "stock:1", 99, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.IncrBy(ctx, "stock:1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	deleted, err := c.Del(ctx, "stock:1", "stock:missing")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestClient_RunScript(t *testing.T) {
	ctx := context.Background()
	c, _ := newConnectedClient(t)

	double := v9.NewScript(`
local v = tonumber(redis.call('GET', KEYS[1]))
if not v then
  return nil
end
return v * tonumber(ARGV[1])
`)

	res, err := c.RunScript(ctx, double, []string{"stock:2"}, 2)
	require.NoError(t, err)
	assert.Nil(t, res)

	require.NoError(t, c.Set(ctx, "stock:2", 21, 0))
	res, err = c.RunScript(ctx, double, []string{"stock:2"}, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(42), res)

	broken := v9.NewScript(`return redis.call('NOPE')`)
	_, err = c.RunScript(ctx, broken, []string{"stock:2"})
	require.Error(t, err)
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisScriptError)))
}
