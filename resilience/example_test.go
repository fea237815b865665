package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/opsdash/resilience"
)

func ExampleCircuitBreaker_State() {
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  2,
		ResetTimeout: time.Minute,
	})
	ctx := context.Background()

	fmt.Println("Initial state:", cb.State())
	for i := 0; i < 2; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error {
			return errors.New("proc filesystem unavailable")
		})
	}
	fmt.Println("After failures:", cb.State())
	// Output:
	// Initial state: closed
	// After failures: open
}

func ExampleNewExecutor() {
	exec := resilience.NewExecutor(
		resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 4})),
		resilience.WithTimeout(50*time.Millisecond),
	)

	err := exec.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	fmt.Println(errors.Is(err, resilience.ErrTimeout))
	// Output:
	// true
}
