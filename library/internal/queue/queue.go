package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/vagnerhf/library/library/internal/model"
	"go.uber.org/zap"
)

const defaultSendTimeout = 200 * time.Millisecond

var ErrQueueFull = errors.New("producer input is full")

// Producer publishes notifications on kafka without waiting for the broker ack.
type Producer struct {
	producer    sarama.AsyncProducer
	topic       string
	sendTimeout time.Duration
	log         *zap.Logger
	wg          sync.WaitGroup
}

type Option func(p *Producer)

// WithSendTimeout bounds how long a publish waits for room in the producer input.
func WithSendTimeout(d time.Duration) Option {
	return func(p *Producer) {
		p.sendTimeout = d
	}
}

func NewProducer(producer sarama.AsyncProducer, topic string, log *zap.Logger, opts ...Option) *Producer {
	p := &Producer{
		producer:    producer,
		topic:       topic,
		sendTimeout: defaultSendTimeout,
		log:         log.Named("queue"),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.wg.Add(1)
	go p.drainErrors()
	return p
}

func (p *Producer) drainErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.log.Warn("produce message",
			zap.String("topic", perr.Msg.Topic), zap.Error(perr.Err))
	}
}

func (p *Producer) PublishLoanCreated(ctx context.Context, msg model.LoanCreated) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal loan created")
	}
	pm := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(msg.LoanKey),
		Value: sarama.ByteEncoder(data),
	}
	timer := time.NewTimer(p.sendTimeout)
	defer timer.Stop()
	select {
	case p.producer.Input() <- pm:
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close flushes buffered messages and waits for the error drain to finish.
func (p *Producer) Close() error {
	err := p.producer.Close()
	p.wg.Wait()
	return err
}
