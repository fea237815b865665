package resilience

import (
	"context"
	"sync/atomic"
	"time"
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	// MaxConcurrent is the number of calls allowed in flight.
	// Default: 10
	MaxConcurrent int

	// MaxWait is how long a call waits for a slot before ErrBulkheadFull.
	// Zero rejects immediately when full.
	MaxWait time.Duration
}

// Bulkhead bounds the number of concurrent calls.
type Bulkhead struct {
	slots    chan struct{}
	maxWait  time.Duration
	rejected atomic.Int64
	peak     atomic.Int64
}

// NewBulkhead creates a Bulkhead.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 10
	}
	return &Bulkhead{
		slots:   make(chan struct{}, config.MaxConcurrent),
		maxWait: config.MaxWait,
	}
}

// Execute runs op once a slot is free.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.acquire(ctx); err != nil {
		return err
	}
	defer func() { <-b.slots }()
	return op(ctx)
}

func (b *Bulkhead) acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		b.notePeak()
		return nil
	default:
	}
	if b.maxWait <= 0 {
		b.rejected.Add(1)
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.maxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		b.notePeak()
		return nil
	case <-timer.C:
		b.rejected.Add(1)
		return ErrBulkheadFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bulkhead) notePeak() {
	n := int64(len(b.slots))
	for {
		p := b.peak.Load()
		if n <= p || b.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

// BulkheadStats is a point-in-time view of a Bulkhead.
type BulkheadStats struct {
	Active   int   `json:"active"`
	Peak     int   `json:"peak"`
	Capacity int   `json:"capacity"`
	Rejected int64 `json:"rejected"`
}

// Stats returns current usage.
func (b *Bulkhead) Stats() BulkheadStats {
	return BulkheadStats{
		Active:   len(b.slots),
		Peak:     int(b.peak.Load()),
		Capacity: cap(b.slots),
		Rejected: b.rejected.Load(),
	}
}
