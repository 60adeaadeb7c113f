package notifications

import (
	"context"
	"fmt"
	"time"

	"reservly/internal/shared/config"
	"reservly/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer publishes notifications to the delivery topic.
type Producer interface {
	Publish(ctx context.Context, notification *EmailNotification) error
	PublishBatch(ctx context.Context, notifications []*EmailNotification) error
	Close() error
}

// kafkaProducer implements Producer over a synchronous sarama producer.
type kafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaProducer creates the notification producer. Writes are idempotent
// and keyed by recipient so per-person delivery order holds.
func NewKafkaProducer(cfg config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaProducer{producer: producer, topic: cfg.NotificationTopic}, nil
}

func (p *kafkaProducer) Publish(ctx context.Context, n *EmailNotification) error {
	n.Status = StatusQueued
	n.UpdatedAt = time.Now().UTC()

	value, err := n.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(n.PartitionKey()),
		Value:     sarama.ByteEncoder(value),
		Headers:   messageHeaders(n),
		Timestamp: n.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		n.MarkFailed(err)
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "notification published", map[string]interface{}{
		"kind":      string(n.Kind),
		"recipient": n.RecipientEmail,
		"partition": partition,
		"offset":    offset,
	})
	return nil
}

func (p *kafkaProducer) PublishBatch(ctx context.Context, notifications []*EmailNotification) error {
	if len(notifications) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(notifications))
	for _, n := range notifications {
		n.Status = StatusQueued
		n.UpdatedAt = time.Now().UTC()

		value, err := n.ToJSON()
		if err != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to marshal notification, skipping", err,
				map[string]interface{}{"recipient": n.RecipientEmail})
			continue
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic:     p.topic,
			Key:       sarama.StringEncoder(n.PartitionKey()),
			Value:     sarama.ByteEncoder(value),
			Headers:   messageHeaders(n),
			Timestamp: n.CreatedAt,
		})
	}

	if err := p.producer.SendMessages(messages); err != nil {
		for _, n := range notifications {
			n.MarkFailed(err)
		}
		return fmt.Errorf("failed to publish notification batch: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "notification batch published", map[string]interface{}{
		"count": len(messages),
	})
	return nil
}

func (p *kafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka producer: %w", err)
	}
	return nil
}

func messageHeaders(n *EmailNotification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
		{Key: []byte("kind"), Value: []byte(n.Kind)},
		{Key: []byte("recipient_id"), Value: []byte(n.RecipientID.String())},
		{Key: []byte("created_at"), Value: []byte(n.CreatedAt.Format(time.RFC3339))},
	}
}
