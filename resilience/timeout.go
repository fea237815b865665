package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout applies when a non-positive deadline is configured.
const DefaultTimeout = 30 * time.Second

// RunWithTimeout runs op with a deadline of d from now.
//
// If op has not returned when the deadline passes, RunWithTimeout returns
// ErrTimeout without waiting for it; op sees its context cancelled and is
// expected to return soon after. Cancellation of the parent context is
// reported as the parent's error.
func RunWithTimeout(ctx context.Context, d time.Duration, op func(context.Context) error) error {
	if d <= 0 {
		d = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
