package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// ErrCircuitOpen is returned when the circuit breaker rejects a call
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings holds circuit breaker tuning
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// Breaker wraps a gobreaker circuit breaker with fallback support
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker creates a circuit breaker from the given settings
func NewBreaker(s Settings) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.SuccessThreshold,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.FailureThreshold
		},
	})
	return &Breaker{cb: cb}
}

// Execute runs fn through the breaker, invoking fallback when the circuit is
// open or fn fails
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) (interface{}, error), fallback FallbackFunc) (interface{}, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = ErrCircuitOpen
		}
		if fallback != nil {
			return fallback(ctx, err)
		}
		return nil, err
	}
	return result, nil
}

// State returns the current breaker state name
func (b *Breaker) State() string {
	return b.cb.State().String()
}
