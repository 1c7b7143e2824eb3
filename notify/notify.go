/*
Package notify fans event notifications out of the gateway to external
consumers. The gateway itself only keeps its in-memory notification log;
anything beyond that, like a Kafka topic for downstream services, is wired
through the Publisher contract.
*/
package notify

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/segmentio/kafka-go"

	"github.com/twinbridge/twinbridge/twin"
)

// Publisher receives a copy of every event notification the gateway accepts.
type Publisher interface {
	PublishNotification(ctx context.Context, notification twin.EventNotification) error
}

// KafkaPublisher writes event notifications to a Kafka topic. The event key
// becomes the message key, so notifications of one event land in one
// partition in order.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// PublishNotification writes one notification as a JSON message.
func (p *KafkaPublisher) PublishNotification(ctx context.Context, notification twin.EventNotification) error {
	value, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(notification.Key),
		Value: value,
	})
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
