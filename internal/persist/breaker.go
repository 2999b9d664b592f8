package persist

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig tunes the circuit breaker around a backend.
type BreakerConfig struct {
	// ConsecutiveFailures trips the breaker once exceeded.
	ConsecutiveFailures uint32
	// ErrorRatePercent trips the breaker once the failure ratio exceeds it,
	// after more than ConsecutiveFailures requests.
	ErrorRatePercent uint32
	// MaxRequests is the number of trial requests in the half-open state.
	MaxRequests uint32
	// Timeout is how long the breaker stays open.
	Timeout time.Duration
}

// BreakerStore guards a Store with a circuit breaker. While the breaker is
// open, calls fail fast with gobreaker.ErrOpenState instead of reaching a
// broken disk.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerStore wraps next. Missing records, invalid keys and cancelled
// contexts do not count as backend failures.
func NewBreakerStore(name string, next Store, cfg BreakerConfig) *BreakerStore {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			total := counts.TotalSuccesses + counts.TotalFailures
			return counts.ConsecutiveFailures > cfg.ConsecutiveFailures ||
				(total > cfg.ConsecutiveFailures &&
					float64(counts.TotalFailures)/float64(total)*100 > float64(cfg.ErrorRatePercent))
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrInvalidKey) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &BreakerStore{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

// Get implements Store.
func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.cb.Execute(func() ([]byte, error) {
		return s.next.Get(ctx, key)
	})
}

// Put implements Store.
func (s *BreakerStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.cb.Execute(func() ([]byte, error) {
		return nil, s.next.Put(ctx, key, value)
	})
	return err
}

// Healthy reports whether the breaker lets calls through.
func (s *BreakerStore) Healthy() bool {
	return s.cb.State() != gobreaker.StateOpen
}
