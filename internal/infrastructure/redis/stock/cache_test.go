package stock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang/mock/gomock"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/muhammadchandra19/flashsale/pkg/redis"
	redis_mock "github.com/muhammadchandra19/flashsale/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (Cache, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	config := redis.DefaultConfig()
	config.Addrs = []string{server.Addr()}

	client := redis.NewClient(logger.NewNop(), config)
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	return NewCache(client, logger.NewNop()), server
}

func TestCache_DecrementIfAvailable(t *testing.T) {
	testCases := []struct {
		name      string
		seed      string
		amount    int64
		want      Outcome
		wantValue string
	}{
		{
			name:   "not cached",
			amount: 1,
			want:   Outcome{Kind: NotCached},
		},
		{
			name:      "decremented",
			seed:      "10",
			amount:    3,
			want:      Outcome{Kind: Decremented, Remaining: 7},
			wantValue: "7",
		},
		{
			name:      "takes the last units",
			seed:      "2",
			amount:    2,
			want:      Outcome{Kind: Decremented, Remaining: 0},
			wantValue: "0",
		},
		{
			name:      "insufficient leaves value untouched",
			seed:      "2",
			amount:    3,
			want:      Outcome{Kind: Insufficient},
			wantValue: "2",
		},
		{
			name:      "zero stock",
			seed:      "0",
			amount:    1,
			want:      Outcome{Kind: Insufficient},
			wantValue: "0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, server := newTestCache(t)
			if tc.seed != "" {
				require.NoError(t, server.Set(Key("item-1"), tc.seed))
			}

			got, err := c.DecrementIfAvailable(context.Background(), "item-1", tc.amount)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			if tc.wantValue == "" {
				assert.False(t, server.Exists(Key("item-1")))
				return
			}
			value, err := server.Get(Key("item-1"))
			require.NoError(t, err)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestCache_ConcurrentDecrementNeverOversells(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "item-1", 10, 0))

	var (
		wg           sync.WaitGroup
		decremented  atomic.Int64
		insufficient atomic.Int64
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcome, err := c.DecrementIfAvailable(ctx, "item-1", 1)
			if !assert.NoError(t, err) {
				return
			}
			switch outcome.Kind {
			case Decremented:
				decremented.Add(1)
			case Insufficient:
				insufficient.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(10), decremented.Load())
	assert.Equal(t, int64(40), insufficient.Load())

	value, found, err := c.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(0), value)
}

func TestCache_GetIncrementAndSeed(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	_, found, err := c.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := c.SetIfAbsent(ctx, "item-1", 5, 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetIfAbsent(ctx, "item-1", 9, 0)
	require.NoError(t, err)
	assert.False(t, ok, "second seed must not overwrite")

	value, found, err := c.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(5), value)
	assert.Zero(t, server.TTL(Key("item-1")))

	outcome, err := c.DecrementIfAvailable(ctx, "item-1", 2)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Kind: Decremented, Remaining: 3}, outcome)

	restored, err := c.Increment(ctx, "item-1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), restored)

	require.NoError(t, c.Set(ctx, "item-1", 50, 5*time.Minute))
	value, _, err = c.Get(ctx, "item-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), value)
	assert.Equal(t, 5*time.Minute, server.TTL(Key("item-1")))

	ok, err = c.SetIfAbsent(ctx, "item-2", 7, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, time.Minute, server.TTL(Key("item-2")))
}

func TestCache_GetRejectsGarbage(t *testing.T) {
	c, server := newTestCache(t)
	require.NoError(t, server.Set(Key("item-1"), "lots"))

	_, _, err := c.Get(context.Background(), "item-1")
	assert.True(t, errors.ErrorCodeEquals(err, string(errors.StockCacheError)))
}

func TestCache_UnexpectedScriptReply(t *testing.T) {
	testCases := []struct {
		name  string
		reply any
	}{
		{name: "nil", reply: nil},
		{name: "scalar", reply: int64(3)},
		{name: "short array", reply: []any{int64(2)}},
		{name: "unknown code", reply: []any{int64(9), int64(0)}},
		{name: "string members", reply: []any{"2", "1"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := redis_mock.NewMockClient(ctrl)
			client.EXPECT().
				RunScript(gomock.Any(), decrementScript, []string{"stock:item-1"}, int64(1)).
				Return(tc.reply, nil)

			c := NewCache(client, logger.NewNop())
			_, err := c.DecrementIfAvailable(context.Background(), "item-1", 1)
			assert.True(t, errors.ErrorCodeEquals(err, string(errors.StockCacheError)))
		})
	}
}
