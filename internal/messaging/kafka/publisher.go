package kafka

import (
	"context"
	"encoding/json"
	"time"

	"go-traindesk/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Publisher emits domain events. Publishing is fire-and-forget: callers do
// not wait on broker acknowledgement and delivery failures never surface to
// the request that raised the event.
type Publisher interface {
	Publish(ctx context.Context, event events.Event)
	Close() error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, events.Event) {}
func (noopPublisher) Close() error                          { return nil }

// NewNoopPublisher is used when no brokers are configured.
func NewNoopPublisher() Publisher { return noopPublisher{} }

type kafkaPublisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

func NewPublisher(brokers []string, topic string, logger *zap.Logger) Publisher {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
	}
	return &kafkaPublisher{
		writer: writer,
		logger: logger.Named("kafka.publisher"),
	}
}

func (p *kafkaPublisher) Publish(_ context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal event failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.OwnerID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	})
	if err != nil {
		p.logger.Warn("publish event failed",
			zap.String("event_type", event.EventType),
			zap.String("owner_id", event.OwnerID),
			zap.Error(err),
		)
	}
}

func (p *kafkaPublisher) Close() error {
	return p.writer.Close()
}
