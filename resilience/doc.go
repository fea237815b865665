// Package resilience guards calls into slow or flaky dependencies.
//
// The sampler wraps every operating system query in an Executor built from
// a Bulkhead (bounded concurrency), a CircuitBreaker (fail fast while the
// source keeps failing) and a deadline. The HTTP layer uses a RateLimiter
// to throttle filesystem housekeeping requests.
//
//	exec := resilience.NewExecutor(
//	    resilience.WithBulkhead(resilience.NewBulkhead(resilience.BulkheadConfig{MaxConcurrent: 16})),
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{})),
//	    resilience.WithTimeout(5*time.Second),
//	)
//	err := exec.Execute(ctx, readDisk)
//
// Calls are never retried; a failed reading is reported to the caller
// unchanged.
package resilience
