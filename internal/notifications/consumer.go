package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"reservly/internal/shared/config"
	"reservly/pkg/logger"

	"github.com/IBM/sarama"
)

const (
	consumerMaxRetries   = 3
	consumerRetryBackoff = time.Second
)

// Consumer runs the email delivery workers off the notification topic.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	sender  EmailSender
	workers int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates the notification consumer group.
func NewConsumer(cfg config.KafkaConfig, sender EmailSender) (*Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	workers := cfg.ConsumerWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Consumer{
		group:   group,
		topics:  []string{cfg.NotificationTopic},
		sender:  sender,
		workers: workers,
	}, nil
}

// Start launches the workers. They run until Stop or context cancellation.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go c.drainErrors(ctx)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go func(workerID int) {
			defer c.wg.Done()
			c.run(ctx, workerID)
		}(i)
	}

	logger.GetDefault().InfoWithContext(ctx, "notification consumers started", map[string]interface{}{
		"workers": c.workers,
		"topics":  c.topics,
	})
}

// Stop shuts the workers down and closes the group.
func (c *Consumer) Stop() error {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	if err := c.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

func (c *Consumer) run(ctx context.Context, workerID int) {
	handler := &deliveryHandler{sender: c.sender, workerID: workerID}
	for {
		select {
		case <-ctx.Done():
			return
		default:
			if err := c.group.Consume(ctx, c.topics, handler); err != nil {
				logger.GetDefault().ErrorWithContext(ctx, "consumer session failed", err,
					map[string]interface{}{"worker": workerID})
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *Consumer) drainErrors(ctx context.Context) {
	for {
		select {
		case err, ok := <-c.group.Errors():
			if !ok {
				return
			}
			logger.GetDefault().ErrorWithContext(ctx, "consumer group error", err, nil)
		case <-ctx.Done():
			return
		}
	}
}

// deliveryHandler processes one claim's messages, sending each notification
// with bounded retries before giving up on it.
type deliveryHandler struct {
	sender   EmailSender
	workerID int
}

func (h *deliveryHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *deliveryHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *deliveryHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			h.process(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *deliveryHandler) process(ctx context.Context, message *sarama.ConsumerMessage) {
	var n EmailNotification
	if err := json.Unmarshal(message.Value, &n); err != nil {
		logger.GetDefault().ErrorWithContext(ctx, "failed to decode notification, skipping", err,
			map[string]interface{}{"offset": message.Offset})
		return
	}

	n.Status = StatusSending
	if err := h.sendWithRetry(ctx, &n); err != nil {
		n.MarkFailed(err)
		logger.GetDefault().ErrorWithContext(ctx, "notification delivery failed", err, map[string]interface{}{
			"kind":      string(n.Kind),
			"recipient": n.RecipientEmail,
			"attempts":  n.Attempts,
		})
		return
	}
	n.MarkSent()
}

func (h *deliveryHandler) sendWithRetry(ctx context.Context, n *EmailNotification) error {
	backoff := consumerRetryBackoff
	for attempt := 0; ; attempt++ {
		n.Attempts++
		err := h.sender.Send(ctx, n)
		if err == nil {
			return nil
		}
		if attempt == consumerMaxRetries {
			return err
		}

		select {
		case <-time.After(backoff):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
