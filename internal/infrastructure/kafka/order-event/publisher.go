package orderevent

import (
	"context"
	"time"

	"github.com/muhammadchandra19/flashsale/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/flashsale/pkg/errors"
	"github.com/muhammadchandra19/flashsale/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Config configures the Kafka publisher.
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type publisher struct {
	writer messageWriter
	logger logger.Interface
}

// NewPublisher creates a Kafka publisher. Messages are keyed by item id so the
// events of one item stay ordered within a partition. Writes are asynchronous
// and delivery failures are logged.
func NewPublisher(config Config, log logger.Interface) Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: config.BatchTimeout,
		WriteTimeout: config.WriteTimeout,
		Async:        true,
	}
	writer.Completion = func(messages []kafka.Message, err error) {
		if err == nil {
			return
		}
		log.Error(errors.TracerFromError(err), logger.Field{
			Key:   "messages",
			Value: len(messages),
		}, logger.Field{
			Key:   "topic",
			Value: config.Topic,
		})
	}

	return newPublisher(writer, log)
}

func newPublisher(writer messageWriter, log logger.Interface) *publisher {
	return &publisher{
		writer: writer,
		logger: log,
	}
}

// PublishOrderCompleted writes an order.completed event for o.
func (p *publisher) PublishOrderCompleted(ctx context.Context, o *order.Order, remainingStock int64) error {
	payload, err := NewOrderCompleted(o, remainingStock).ToBytes()
	if err != nil {
		return errors.TracerFromError(err)
	}

	msg := kafka.Message{
		Key:   []byte(o.ItemID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(EventType)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "orderId",
			Value: o.ID,
		})
		return errors.NewErrorDetails("Failed to publish order event: "+err.Error(), string(errors.EventPublishError), "order")
	}
	return nil
}

// Close flushes pending messages.
func (p *publisher) Close() error {
	return p.writer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops every event.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishOrderCompleted(context.Context, *order.Order, int64) error {
	return nil
}

func (noopPublisher) Close() error {
	return nil
}
