package resilience

import (
	"context"
	"time"
)

// Executor composes the guards configured on it.
type Executor struct {
	limiter  *RateLimiter
	bulkhead *Bulkhead
	breaker  *CircuitBreaker
	timeout  time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an Executor. With no options Execute just calls op.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithRateLimiter rejects calls beyond the limiter's rate.
func WithRateLimiter(rl *RateLimiter) ExecutorOption {
	return func(e *Executor) { e.limiter = rl }
}

// WithBulkhead bounds concurrent calls.
func WithBulkhead(b *Bulkhead) ExecutorOption {
	return func(e *Executor) { e.bulkhead = b }
}

// WithCircuitBreaker fails fast while the breaker is open.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithTimeout gives each call a deadline.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) { e.timeout = d }
}

// Bulkhead returns the configured bulkhead, or nil.
func (e *Executor) Bulkhead() *Bulkhead { return e.bulkhead }

// CircuitBreaker returns the configured circuit breaker, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker { return e.breaker }

// Execute runs op through the rate limiter, bulkhead, circuit breaker
// and deadline, outermost first. A timed out call counts as a breaker
// failure.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	call := op
	if e.timeout > 0 {
		inner := call
		call = func(ctx context.Context) error {
			return RunWithTimeout(ctx, e.timeout, inner)
		}
	}
	if e.breaker != nil {
		call = wrap(call, e.breaker.Execute)
	}
	if e.bulkhead != nil {
		call = wrap(call, e.bulkhead.Execute)
	}
	if e.limiter != nil {
		call = wrap(call, e.limiter.Execute)
	}
	return call(ctx)
}

type guard func(context.Context, func(context.Context) error) error

func wrap(inner func(context.Context) error, g guard) func(context.Context) error {
	return func(ctx context.Context) error {
		return g(ctx, inner)
	}
}
