package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/core/domain"
)

// Producer is the slice of kafka.Writer the publisher needs.
type Producer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher emits order-placed events keyed by order number. Fire and
// forget: no retry loop here, at most one publish per accepted order.
type KafkaPublisher struct {
	log      *zap.Logger
	producer Producer
	topic    string
}

func NewKafkaPublisher(log *zap.Logger, producer Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{log: log, producer: producer, topic: topic}
}

// NewWriter builds the kafka writer the publisher is normally backed by.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.OrderNumber),
		Value: payload,
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	p.log.Info("order placed event published",
		zap.String("order_number", event.OrderNumber),
		zap.String("topic", p.topic))
	return nil
}
