package httpx

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrBreakerOpen is returned without calling fn while the breaker rejects calls.
var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerConfig struct {
	Name        string
	Timeout     time.Duration
	MaxFailures uint32
	// HalfOpenRequests is the number of probe calls allowed while half-open.
	HalfOpenRequests uint32
}

type Breaker interface {
	Execute(fn func() error) error
	State() string
}

type breaker struct {
	cb *gobreaker.CircuitBreaker
}

func NewBreaker(cfg BreakerConfig) Breaker {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 1
	}
	halfOpen := cfg.HalfOpenRequests
	if halfOpen == 0 {
		halfOpen = 1
	}
	return &breaker{
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: halfOpen,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
		}),
	}
}

// Execute runs fn once. The error returned by fn is kept in the chain.
func (b *breaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("breaker (%s): %w", b.cb.Name(), ErrBreakerOpen)
	}
	return fmt.Errorf("breaker (%s): %w", b.cb.Name(), err)
}

func (b *breaker) State() string {
	return b.cb.State().String()
}
