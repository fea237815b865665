package health

import (
	"context"
	"time"

	"github.com/jonwraymond/opsdash/sample"
)

// Sampler is the set of readings a report is built from.
// *sample.Sampler implements it.
type Sampler interface {
	CPU(ctx context.Context) (sample.CPU, error)
	Memory(ctx context.Context) (sample.Memory, error)
	Disk(ctx context.Context, path string) (sample.Disk, error)
	Network(ctx context.Context) (sample.Network, error)
	Processes(ctx context.Context, topN int) (sample.ProcessList, error)
}

var _ Sampler = (*sample.Sampler)(nil)

// Report is a composite reading of the host.
type Report struct {
	Timestamp     time.Time          `json:"timestamp"`
	CPU           sample.CPU         `json:"cpu"`
	Memory        sample.Memory      `json:"memory"`
	Disk          sample.Disk        `json:"disk"`
	Network       sample.Network     `json:"network"`
	Processes     sample.ProcessList `json:"processes"`
	OverallHealth Status             `json:"overall_health"`
}

// AlertCount returns how many of CPU, memory and disk alert.
func (r Report) AlertCount() int {
	return countAlerts(r.CPU.Alert, r.Memory.Alert, r.Disk.Alert)
}

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// AlertThreshold is the percentage above which a resource alerts.
	// Default: 80
	AlertThreshold float64

	// DiskPath is the disk reported when a request names none.
	// Default: "/"
	DiskPath string

	// TopProcesses is the process count reported when a request names none.
	// Default: 5
	TopProcesses int
}

// Request selects what a report covers. An empty DiskPath or a nil
// TopProcesses uses the Aggregator's default. TopProcesses may point to 0
// for a report without processes.
type Request struct {
	DiskPath     string
	TopProcesses *int
}

// Aggregator builds health reports. The threshold is fixed at
// construction and the Aggregator is safe for concurrent use.
type Aggregator struct {
	sampler Sampler
	config  AggregatorConfig
	now     func() time.Time
}

// NewAggregator creates an Aggregator over s.
func NewAggregator(s Sampler, config ...AggregatorConfig) *Aggregator {
	var cfg AggregatorConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.AlertThreshold <= 0 {
		cfg.AlertThreshold = sample.DefaultAlertThreshold
	}
	if cfg.DiskPath == "" {
		cfg.DiskPath = sample.DefaultDiskPath
	}
	if cfg.TopProcesses <= 0 {
		cfg.TopProcesses = sample.DefaultTopProcesses
	}
	return &Aggregator{sampler: s, config: cfg, now: time.Now}
}

// TopProcesses returns the process count used when a request names none.
func (a *Aggregator) TopProcesses() int {
	return a.config.TopProcesses
}

// Threshold returns the alert threshold.
func (a *Aggregator) Threshold() float64 {
	return a.config.AlertThreshold
}

// Generate reads every sampler in turn and derives the verdict.
// The first sampler error is returned unchanged and no report is built.
func (a *Aggregator) Generate(ctx context.Context, req Request) (Report, error) {
	if a.sampler == nil {
		return Report{}, ErrNilSampler
	}
	if req.DiskPath == "" {
		req.DiskPath = a.config.DiskPath
	}
	topN := a.config.TopProcesses
	if req.TopProcesses != nil {
		topN = *req.TopProcesses
	}

	cpu, err := a.sampler.CPU(ctx)
	if err != nil {
		return Report{}, err
	}
	mem, err := a.sampler.Memory(ctx)
	if err != nil {
		return Report{}, err
	}
	disk, err := a.sampler.Disk(ctx, req.DiskPath)
	if err != nil {
		return Report{}, err
	}
	network, err := a.sampler.Network(ctx)
	if err != nil {
		return Report{}, err
	}
	procs, err := a.sampler.Processes(ctx, topN)
	if err != nil {
		return Report{}, err
	}

	t := a.config.AlertThreshold
	cpu.Alert = sample.Exceeds(cpu.UsagePercent, t)
	mem.Alert = sample.Exceeds(mem.Percent, t)
	disk.Alert = sample.Exceeds(disk.Percent, t)

	return Report{
		Timestamp:     a.now(),
		CPU:           cpu,
		Memory:        mem,
		Disk:          disk,
		Network:       network,
		Processes:     procs,
		OverallHealth: Verdict(cpu.Alert, mem.Alert, disk.Alert),
	}, nil
}
