package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

type sendMail func(ctx context.Context, msg model.LoanCreated) error

// Consumer delivers "loan created" mails from the queue. Offsets are
// cumulative per partition, so a message that still fails after the retries is
// logged and committed like a delivered one. Only a session that ends mid-retry
// leaves it uncommitted.
type Consumer struct {
	sendMailHandler sendMail
	attempts        int
	backoff         time.Duration
	log             *zap.Logger
}

type ConsumerOption func(c *Consumer)

func WithRetry(attempts int, backoff time.Duration) ConsumerOption {
	return func(c *Consumer) {
		c.attempts = attempts
		c.backoff = backoff
	}
}

func NewConsumer(sendMail sendMail, log *zap.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		sendMailHandler: sendMail,
		attempts:        3,
		backoff:         time.Second,
		log:             log.Named("consumer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.attempts < 1 {
		c.attempts = 1
	}
	return c
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var msg model.LoanCreated
			if err := json.Unmarshal(message.Value, &msg); err != nil {
				consumer.log.Error("decode loan created", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			if err := consumer.deliver(session.Context(), msg); err != nil {
				if session.Context().Err() != nil {
					return nil
				}
				consumer.log.Error("loan created mail dropped",
					zap.String("loan", msg.LoanKey), zap.Int("attempts", consumer.attempts), zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			consumer.log.Debug("Message claimed:", zap.String("loan", msg.LoanKey), zap.Time("timestamp", message.Timestamp), zap.String("topic", message.Topic))
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) deliver(ctx context.Context, msg model.LoanCreated) error {
	var err error
	for attempt := 1; attempt <= consumer.attempts; attempt++ {
		if err = consumer.sendMailHandler(ctx, msg); err == nil {
			return nil
		}
		consumer.log.Warn("consumer.sendMailHandler",
			zap.String("loan", msg.LoanKey), zap.Int("attempt", attempt), zap.Error(err))
		if attempt == consumer.attempts {
			break
		}
		select {
		case <-time.After(consumer.backoff * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
