package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	LoanCreatedTopic     = "library.loan-created"
	MailerConsumerGroup  = "library-mailer"
	defaultPartitions    = 1
	defaultReplication   = 1
	consumeRetryInterval = 5 * time.Second
)

type Config struct {
	Addrs          []string `envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
	EnableConsumer bool     `envconfig:"KAFKA_ENABLE_CONSUMER" default:"true"`
}

// NewAsyncProducer returns a producer whose Errors channel must be drained by the caller.
func NewAsyncProducer(cfg Config) (sarama.AsyncProducer, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Producer.RequiredAcks = sarama.WaitForLocal
	defaultCfg.Producer.Return.Errors = true
	defaultCfg.Producer.Retry.Max = 5

	return sarama.NewAsyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// CreateTopics makes sure every topic exists. Already existing topics are not an error.
func CreateTopics(cfg Config, topics ...string) error {
	admin, err := sarama.NewClusterAdmin(cfg.Addrs, sarama.NewConfig())
	if err != nil {
		return errors.Wrap(err, "sarama.NewClusterAdmin")
	}
	defer admin.Close()

	for _, topic := range topics {
		err := admin.CreateTopic(topic, &sarama.TopicDetail{
			NumPartitions:     defaultPartitions,
			ReplicationFactor: defaultReplication,
		}, false)
		if err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
			var topicErr *sarama.TopicError
			if errors.As(err, &topicErr) && topicErr.Err == sarama.ErrTopicAlreadyExists {
				continue
			}
			return errors.Wrapf(err, "create topic %s", topic)
		}
	}
	return nil
}

// Consume runs the consumer group session loop until ctx is done or the group is closed.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) error {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			log.Error("consumer group", zap.Error(err), zap.Strings("topics", topics))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(consumeRetryInterval):
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
