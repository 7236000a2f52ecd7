package cache

import (
	"errors"
	"sync"
	"time"
)

// The breaker sits between the multi-level cache and redis: after
// maxFailures consecutive redis errors it opens and the cache serves
// L1 only, probing redis again once the cooldown passes.

type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerConfig struct {
	MaxFailures      int           `json:"max_failures"`
	Cooldown         time.Duration `json:"cooldown"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func DefaultBreakerConfig() *BreakerConfig {
	return &BreakerConfig{
		MaxFailures:      5,
		Cooldown:         30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

type CircuitBreaker struct {
	mu              sync.RWMutex
	state           BreakerState
	failureCount    int
	successCount    int
	lastFailureTime time.Time

	maxFailures      int
	cooldown         time.Duration
	halfOpenMaxCalls int
}

func NewCircuitBreaker(config *BreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultBreakerConfig()
	}
	return &CircuitBreaker{
		state:            BreakerClosed,
		maxFailures:      config.MaxFailures,
		cooldown:         config.Cooldown,
		halfOpenMaxCalls: config.HalfOpenMaxCalls,
	}
}

func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrBreakerOpen
	}

	if err := fn(); err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case BreakerClosed:
		return true
	case BreakerOpen:
		return time.Since(cb.lastFailureTime) >= cb.cooldown
	case BreakerHalfOpen:
		return cb.successCount < cb.halfOpenMaxCalls
	default:
		return false
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount++
	cb.lastFailureTime = time.Now()

	switch cb.state {
	case BreakerClosed:
		if cb.failureCount >= cb.maxFailures {
			cb.state = BreakerOpen
		}
	case BreakerHalfOpen:
		cb.state = BreakerOpen
		cb.successCount = 0
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerClosed:
		cb.failureCount = 0
	case BreakerHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenMaxCalls {
			cb.state = BreakerClosed
			cb.failureCount = 0
			cb.successCount = 0
		}
	case BreakerOpen:
		if time.Since(cb.lastFailureTime) >= cb.cooldown {
			cb.state = BreakerHalfOpen
			cb.successCount = 1
		}
	}
}

func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

func (cb *CircuitBreaker) Stats() map[string]interface{} {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	stateName := "closed"
	switch cb.state {
	case BreakerOpen:
		stateName = "open"
	case BreakerHalfOpen:
		stateName = "half-open"
	}

	return map[string]interface{}{
		"state":            stateName,
		"failure_count":    cb.failureCount,
		"success_count":    cb.successCount,
		"last_failure":     cb.lastFailureTime.Unix(),
		"max_failures":     cb.maxFailures,
		"cooldown_seconds": cb.cooldown.Seconds(),
	}
}
