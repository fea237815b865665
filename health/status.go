package health

import (
	"fmt"
	"strings"
)

// Status is the overall health verdict.
type Status int

const (
	// StatusHealthy means no resource is above the alert threshold.
	StatusHealthy Status = iota
	// StatusWarning means exactly one resource is above the threshold.
	StatusWarning
	// StatusCritical means two or more resources are above the threshold.
	StatusCritical
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusWarning:
		return "WARNING"
	case StatusCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ParseStatus parses a status name case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HEALTHY":
		return StatusHealthy, nil
	case "WARNING":
		return StatusWarning, nil
	case "CRITICAL":
		return StatusCritical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Verdict maps the three alert flags to a Status.
func Verdict(cpuAlert, memoryAlert, diskAlert bool) Status {
	switch alerts := countAlerts(cpuAlert, memoryAlert, diskAlert); {
	case alerts == 0:
		return StatusHealthy
	case alerts == 1:
		return StatusWarning
	default:
		return StatusCritical
	}
}

// countAlerts is the one counting rule behind Verdict and Report.AlertCount.
func countAlerts(cpuAlert, memoryAlert, diskAlert bool) int {
	n := 0
	for _, a := range [...]bool{cpuAlert, memoryAlert, diskAlert} {
		if a {
			n++
		}
	}
	return n
}
