package sample

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
)

// Source is the operating system binding a Sampler reads from.
type Source interface {
	// CPUPercent measures usage over interval, per core when perCore is set.
	CPUPercent(ctx context.Context, interval time.Duration, perCore bool) ([]float64, error)

	// CPUCount returns the number of logical cores.
	CPUCount(ctx context.Context) (int, error)

	// Memory returns virtual memory accounting.
	Memory(ctx context.Context) (MemoryStat, error)

	// DiskUsage returns usage of the filesystem holding path.
	DiskUsage(ctx context.Context, path string) (DiskStat, error)

	// Network returns interface counters summed over all interfaces.
	Network(ctx context.Context) (Network, error)

	// PIDs lists the running process IDs.
	PIDs(ctx context.Context) ([]int32, error)

	// Process inspects one process. It fails if the process has exited
	// or cannot be inspected.
	Process(ctx context.Context, pid int32) (Process, error)
}

// HostSource reads the local host through gopsutil.
type HostSource struct{}

var _ Source = HostSource{}

var errNoCounters = errors.New("no network counters reported")

// CPUPercent implements Source.
func (HostSource) CPUPercent(ctx context.Context, interval time.Duration, perCore bool) ([]float64, error) {
	return cpu.PercentWithContext(ctx, interval, perCore)
}

// CPUCount implements Source.
func (HostSource) CPUCount(ctx context.Context) (int, error) {
	return cpu.CountsWithContext(ctx, true)
}

// Memory implements Source.
func (HostSource) Memory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{
		Total:       vm.Total,
		Available:   vm.Available,
		Used:        vm.Used,
		UsedPercent: vm.UsedPercent,
	}, nil
}

// DiskUsage implements Source.
func (HostSource) DiskUsage(ctx context.Context, path string) (DiskStat, error) {
	// statfs error codes differ across platforms; stat first so a missing
	// path always surfaces as fs.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return DiskStat{}, err
	}
	u, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskStat{}, err
	}
	return DiskStat{
		Total:       u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
	}, nil
}

// Network implements Source.
func (HostSource) Network(ctx context.Context) (Network, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return Network{}, err
	}
	if len(counters) == 0 {
		return Network{}, errNoCounters
	}
	c := counters[0]
	return Network{
		BytesSent:       c.BytesSent,
		BytesReceived:   c.BytesRecv,
		PacketsSent:     c.PacketsSent,
		PacketsReceived: c.PacketsRecv,
	}, nil
}

// PIDs implements Source.
func (HostSource) PIDs(ctx context.Context) ([]int32, error) {
	return process.PidsWithContext(ctx)
}

// Process implements Source.
func (HostSource) Process(ctx context.Context, pid int32) (Process, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return Process{}, err
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return Process{}, err
	}
	pct, err := p.MemoryPercentWithContext(ctx)
	if err != nil {
		return Process{}, err
	}
	return Process{PID: pid, Name: name, MemoryPercent: float64(pct)}, nil
}
