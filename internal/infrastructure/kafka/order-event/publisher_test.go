package orderevent

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
	pkgerrors "github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testOrder() *order.Order {
	return &order.Order{
		ID:          "01J0000000000000000000000A",
		BuyerID:     "buyer-1",
		ItemID:      "676f00000000000000000001",
		ItemName:    "iPhone 15 Pro",
		Quantity:    2,
		Price:       999,
		TotalAmount: 1998,
		Status:      order.OrderStatusCompleted,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_PublishOrderCompleted(t *testing.T) {
	testCases := []struct {
		name     string
		writer   *fakeWriter
		assertFn func(t *testing.T, w *fakeWriter, err error)
	}{
		{
			name:   "success",
			writer: &fakeWriter{},
			assertFn: func(t *testing.T, w *fakeWriter, err error) {
				require.NoError(t, err)
				require.Len(t, w.messages, 1)

				msg := w.messages[0]
				assert.Equal(t, "676f00000000000000000001", string(msg.Key))
				assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte(EventType)}}, msg.Headers)

				var event OrderCompleted
				require.NoError(t, json.Unmarshal(msg.Value, &event))
				assert.Equal(t, EventType, event.Type)
				assert.Equal(t, "01J0000000000000000000000A", event.OrderID)
				assert.Equal(t, int64(2), event.Quantity)
				assert.Equal(t, 1998.0, event.TotalAmount)
				assert.Equal(t, int64(8), event.RemainingStock)
			},
		},
		{
			name:   "broker error",
			writer: &fakeWriter{err: errors.New("leader not available")},
			assertFn: func(t *testing.T, w *fakeWriter, err error) {
				assert.True(t, pkgerrors.ErrorCodeEquals(err, string(pkgerrors.EventPublishError)))
				assert.Empty(t, w.messages)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := newPublisher(tc.writer, logger.NewNop())
			err := p.PublishOrderCompleted(context.Background(), testOrder(), 8)
			tc.assertFn(t, tc.writer, err)

			require.NoError(t, p.Close())
			assert.True(t, tc.writer.closed)
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher()
	assert.NoError(t, p.PublishOrderCompleted(context.Background(), testOrder(), 0))
	assert.NoError(t, p.Close())
}

func TestNewPublisher_Config(t *testing.T) {
	p := NewPublisher(Config{
		Brokers:      []string{"kafka-1:9092", "kafka-2:9092"},
		Topic:        "flashsale.order.completed",
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: time.Second,
	}, logger.NewNop())

	writer, ok := p.(*publisher).writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "flashsale.order.completed", writer.Topic)
	assert.True(t, writer.Async)
	assert.NotNil(t, writer.Completion)
	assert.NoError(t, p.Close())
}
