package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// DefaultTopics routes every timeline change to the shared changes topic.
func DefaultTopics() map[string]string {
	return map[string]string{
		"timeline.service_created": "timeline.services.v1",
		"timeline.service_updated": "timeline.services.v1",
		"timeline.service_deleted": "timeline.services.v1",
		"timeline.event_created":   "timeline.events.v1",
	}
}

type KafkaPublisher struct {
	writer       *kafka.Writer
	topicByEvent map[string]string
}

func NewKafkaPublisher(brokers []string, topicByEvent map[string]string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topicByEvent == nil {
		topicByEvent = DefaultTopics()
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topicByEvent: topicByEvent,
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload []byte, partitionKey string) error {
	return p.writer.WriteMessages(ctx, p.message(eventType, payload, partitionKey))
}

func (p *KafkaPublisher) message(eventType string, payload []byte, partitionKey string) kafka.Message {
	topic := eventType
	if mapped, ok := p.topicByEvent[eventType]; ok && mapped != "" {
		topic = mapped
	}
	return kafka.Message{
		Topic:   topic,
		Key:     []byte(partitionKey),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
		Time:    time.Now().UTC(),
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
