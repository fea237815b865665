package sample

import (
	"cmp"
	"context"
	"errors"
	"io/fs"
	"slices"
	"time"

	"github.com/jonwraymond/opsdash/resilience"
)

const (
	// CPUInterval is how long the overall CPU reading blocks.
	CPUInterval = time.Second

	// PerCoreInterval is how long the per-core CPU reading blocks.
	PerCoreInterval = 100 * time.Millisecond
)

// Config configures a Sampler.
type Config struct {
	// AlertThreshold is the percentage above which CPU, memory and disk
	// readings alert.
	// Default: 80
	AlertThreshold float64

	// Timeout bounds a single reading, including the CPU intervals.
	// Default: 5 seconds
	Timeout time.Duration

	// MaxConcurrent bounds simultaneous operating system queries.
	// Default: 16
	MaxConcurrent int

	// MaxFailures is the number of consecutive source failures after
	// which readings fail fast until ResetTimeout elapses.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long readings fail fast once MaxFailures is hit.
	// Default: 30 seconds
	ResetTimeout time.Duration
}

// Sampler takes readings from a Source.
// It is safe for concurrent use.
type Sampler struct {
	src       Source
	threshold float64
	exec      *resilience.Executor
}

// New creates a Sampler reading from src.
func New(src Source, config ...Config) *Sampler {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = DefaultAlertThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 16
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		MaxFailures:  cfg.MaxFailures,
		ResetTimeout: cfg.ResetTimeout,
		IsFailure:    isSourceFailure,
	})
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		MaxConcurrent: cfg.MaxConcurrent,
		MaxWait:       cfg.Timeout,
	})

	return &Sampler{
		src:       src,
		threshold: cfg.AlertThreshold,
		exec: resilience.NewExecutor(
			resilience.WithBulkhead(bulkhead),
			resilience.WithCircuitBreaker(breaker),
			resilience.WithTimeout(cfg.Timeout),
		),
	}
}

// Threshold returns the alert threshold.
func (s *Sampler) Threshold() float64 {
	return s.threshold
}

// Stats is the state of the guards around the Source.
type Stats struct {
	Circuit  resilience.State         `json:"circuit"`
	Failures int                      `json:"consecutive_failures"`
	Bulkhead resilience.BulkheadStats `json:"bulkhead"`
}

// Stats reports the circuit breaker and concurrency state.
func (s *Sampler) Stats() Stats {
	cb := s.exec.CircuitBreaker()
	return Stats{
		Circuit:  cb.State(),
		Failures: cb.Failures(),
		Bulkhead: s.exec.Bulkhead().Stats(),
	}
}

// CPU reads overall and per-core processor usage.
// It blocks for CPUInterval plus PerCoreInterval.
func (s *Sampler) CPU(ctx context.Context) (CPU, error) {
	var out CPU
	err := s.run(ctx, "cpu", "", func(ctx context.Context) error {
		overall, err := s.src.CPUPercent(ctx, CPUInterval, false)
		if err != nil {
			return err
		}
		perCore, err := s.src.CPUPercent(ctx, PerCoreInterval, true)
		if err != nil {
			return err
		}
		cores, err := s.src.CPUCount(ctx)
		if err != nil {
			return err
		}

		var usage float64
		if len(overall) > 0 {
			usage = round2(clampPercent(overall[0]))
		}
		per := make([]float64, len(perCore))
		for i, v := range perCore {
			per[i] = round2(clampPercent(v))
		}

		out = CPU{
			UsagePercent: usage,
			CoreCount:    cores,
			PerCoreUsage: per,
			Alert:        Exceeds(usage, s.threshold),
			IntervalMS:   CPUInterval.Milliseconds(),
		}
		return nil
	})
	if err != nil {
		return CPU{}, err
	}
	return out, nil
}

// Memory reads virtual memory usage.
func (s *Sampler) Memory(ctx context.Context) (Memory, error) {
	var out Memory
	err := s.run(ctx, "memory", "", func(ctx context.Context) error {
		st, err := s.src.Memory(ctx)
		if err != nil {
			return err
		}
		pct := round2(clampPercent(st.UsedPercent))
		out = Memory{
			TotalGB:     toGB(st.Total),
			UsedGB:      toGB(st.Used),
			AvailableGB: toGB(st.Available),
			Percent:     pct,
			Alert:       Exceeds(pct, s.threshold),
		}
		return nil
	})
	if err != nil {
		return Memory{}, err
	}
	return out, nil
}

// Disk reads usage of the filesystem holding path. An empty path reads
// DefaultDiskPath. A path that does not exist or cannot be accessed fails
// with ErrPathNotFound.
func (s *Sampler) Disk(ctx context.Context, path string) (Disk, error) {
	if path == "" {
		path = DefaultDiskPath
	}
	var out Disk
	err := s.run(ctx, "disk", path, func(ctx context.Context) error {
		st, err := s.src.DiskUsage(ctx, path)
		if err != nil {
			return err
		}
		pct := round2(clampPercent(st.UsedPercent))
		out = Disk{
			Path:    path,
			TotalGB: toGB(st.Total),
			UsedGB:  toGB(st.Used),
			FreeGB:  toGB(st.Free),
			Percent: pct,
			Alert:   Exceeds(pct, s.threshold),
		}
		return nil
	})
	if err != nil {
		return Disk{}, err
	}
	return out, nil
}

// Network reads cumulative interface counters.
func (s *Sampler) Network(ctx context.Context) (Network, error) {
	var out Network
	err := s.run(ctx, "network", "", func(ctx context.Context) error {
		n, err := s.src.Network(ctx)
		if err != nil {
			return err
		}
		out = n
		return nil
	})
	if err != nil {
		return Network{}, err
	}
	return out, nil
}

// Processes lists the topN processes by memory share, highest first.
// Ties keep enumeration order. Processes that exit or refuse inspection
// while being enumerated are left out. topN == 0 yields an empty list and
// a negative topN means DefaultTopProcesses.
func (s *Sampler) Processes(ctx context.Context, topN int) (ProcessList, error) {
	if topN < 0 {
		topN = DefaultTopProcesses
	}
	if topN == 0 {
		return ProcessList{TopProcesses: []Process{}}, nil
	}
	var out ProcessList
	err := s.run(ctx, "processes", "", func(ctx context.Context) error {
		pids, err := s.src.PIDs(ctx)
		if err != nil {
			return err
		}
		procs := make([]Process, 0, len(pids))
		for _, pid := range pids {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := s.src.Process(ctx, pid)
			if err != nil {
				continue
			}
			procs = append(procs, p)
		}
		out = ProcessList{TopProcesses: topByMemory(procs, topN)}
		return nil
	})
	if err != nil {
		return ProcessList{}, err
	}
	return out, nil
}

// topByMemory orders on the unrounded share and rounds only what it keeps.
func topByMemory(procs []Process, n int) []Process {
	slices.SortStableFunc(procs, func(a, b Process) int {
		return cmp.Compare(b.MemoryPercent, a.MemoryPercent)
	})
	if len(procs) > n {
		procs = procs[:n]
	}
	for i := range procs {
		procs[i].MemoryPercent = round2(procs[i].MemoryPercent)
	}
	return procs
}

func (s *Sampler) run(ctx context.Context, op, path string, fn func(context.Context) error) error {
	err := s.exec.Execute(ctx, fn)
	if err == nil {
		return nil
	}
	return classify(op, path, err)
}

func classify(op, path string, err error) error {
	kind := ErrSampling
	switch {
	case errors.Is(err, resilience.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		kind = ErrSamplerTimeout
	case path != "" && isPathError(err):
		kind = ErrPathNotFound
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

func isPathError(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission)
}

// isSourceFailure keeps caller mistakes and cancellations from opening
// the circuit.
func isSourceFailure(err error) bool {
	if err == nil || isPathError(err) || errors.Is(err, context.Canceled) {
		return false
	}
	return true
}
