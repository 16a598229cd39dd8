package events

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultTopics maps outbox event types to their Kafka topics.
var DefaultTopics = map[string]string{
	"user.registered":         "easysewa.users",
	"owner.approval_changed":  "easysewa.users",
	"booking.created":         "easysewa.bookings",
	"booking.cancelled":       "easysewa.bookings",
	"booking.status_changed":  "easysewa.bookings",
	"booking.payment_updated": "easysewa.payments",
}

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(brokers []string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if topicByEvent == nil {
		topicByEvent = DefaultTopics
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
		topicByEvent: topicByEvent,
	}, nil
}

// Publish keys the message by partitionKey so events of one schedule stay ordered.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topicFor(eventType),
		Key:   []byte(partitionKey),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
		Time: time.Now().UTC(),
	})
}

func (p *KafkaPublisher) topicFor(eventType string) string {
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		return mapped
	}
	return eventType
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
