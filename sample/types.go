package sample

import "math"

// DefaultAlertThreshold is the percentage above which a reading alerts.
const DefaultAlertThreshold = 80.0

// DefaultTopProcesses is the process count used when none is requested.
const DefaultTopProcesses = 5

// DefaultDiskPath is the disk path used when none is requested.
const DefaultDiskPath = "/"

const bytesPerGB = 1 << 30

// CPU is a processor usage reading.
type CPU struct {
	UsagePercent float64   `json:"usage_percent"`
	CoreCount    int       `json:"core_count"`
	PerCoreUsage []float64 `json:"per_core_usage"`
	Alert        bool      `json:"alert"`

	// IntervalMS is the blocking interval of the overall reading.
	IntervalMS int64 `json:"interval_ms"`
}

// Memory is a virtual memory reading. Sizes are in GB rounded to two decimals.
type Memory struct {
	TotalGB     float64 `json:"total_gb"`
	UsedGB      float64 `json:"used_gb"`
	AvailableGB float64 `json:"available_gb"`
	Percent     float64 `json:"percent"`
	Alert       bool    `json:"alert"`
}

// Disk is a filesystem usage reading for the volume holding Path.
type Disk struct {
	Path    string  `json:"path"`
	TotalGB float64 `json:"total_gb"`
	UsedGB  float64 `json:"used_gb"`
	FreeGB  float64 `json:"free_gb"`
	Percent float64 `json:"percent"`
	Alert   bool    `json:"alert"`
}

// Network holds interface counters summed over all interfaces.
// The values are cumulative since boot, not rates.
type Network struct {
	BytesSent       uint64 `json:"bytes_sent"`
	BytesReceived   uint64 `json:"bytes_received"`
	PacketsSent     uint64 `json:"packets_sent"`
	PacketsReceived uint64 `json:"packets_received"`
}

// Process is a single entry of a process listing.
type Process struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	MemoryPercent float64 `json:"memory_percent"`
}

// ProcessList holds the processes using the most memory, highest first.
type ProcessList struct {
	TopProcesses []Process `json:"top_processes"`
}

// MemoryStat is the raw memory accounting returned by a Source.
type MemoryStat struct {
	Total       uint64
	Available   uint64
	Used        uint64
	UsedPercent float64
}

// DiskStat is the raw filesystem accounting returned by a Source.
type DiskStat struct {
	Total       uint64
	Used        uint64
	Free        uint64
	UsedPercent float64
}

// Exceeds reports whether value is strictly above threshold.
func Exceeds(value, threshold float64) bool {
	return value > threshold
}

func toGB(b uint64) float64 {
	return round2(float64(b) / bytesPerGB)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
