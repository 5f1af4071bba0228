package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

type Config struct {
	// RecordLength is the size of the sliding window of recent calls.
	RecordLength int `envconfig:"CB_RECORD_LENGTH" default:"20"`
	// Timeout is how long the breaker stays open before letting a probe through.
	Timeout time.Duration `envconfig:"CB_TIMEOUT" default:"30s"`
	// Percentile of failed calls in the window that opens the breaker.
	Percentile float64 `envconfig:"CB_PERCENTILE" default:"0.5"`
	// RecoveryRequests is the number of successful half-open calls needed to close again.
	RecoveryRequests int `envconfig:"CB_RECOVERY_REQUESTS" default:"2"`
}

type circuitBreaker struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state           Status
	lastAttemptedAt time.Time
	// failures is a ring buffer, pos is the next slot to overwrite.
	failures     []bool
	pos          int
	successCount int
}

func New(cfg Config) CircuitBreaker {
	return newCircuitBreaker(cfg, time.Now)
}

func newCircuitBreaker(cfg Config, now func() time.Time) *circuitBreaker {
	if cfg.RecordLength <= 0 {
		cfg.RecordLength = 1
	}
	return &circuitBreaker{
		cfg:      cfg,
		now:      now,
		state:    Closed,
		failures: make([]bool, cfg.RecordLength),
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	cb.mu.Lock()
	if cb.state == Open {
		if cb.now().Sub(cb.lastAttemptedAt) <= cb.cfg.Timeout {
			cb.mu.Unlock()
			return ErrOpenCB
		}
		cb.state = HalfOpen
		cb.successCount = 0
	}
	cb.mu.Unlock()

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures[cb.pos] = err != nil
	cb.pos = (cb.pos + 1) % cb.cfg.RecordLength

	if cb.state == HalfOpen {
		if err != nil {
			cb.trip()
			return err
		}
		cb.successCount++
		if cb.successCount >= cb.cfg.RecoveryRequests {
			cb.reset()
		}
		return nil
	}

	fails := 0
	for _, failed := range cb.failures {
		if failed {
			fails++
		}
	}
	if float64(fails)/float64(cb.cfg.RecordLength) >= cb.cfg.Percentile {
		cb.trip()
	}
	return err
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.successCount = 0
	cb.lastAttemptedAt = cb.now()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.failures {
		cb.failures[i] = false
	}
	cb.successCount = 0
	cb.pos = 0
	cb.state = Closed
}
