// Package sample reads point-in-time host metrics.
//
// A Sampler produces one immutable reading per call for CPU, memory, disk,
// network and process usage. Nothing is cached: every call queries the
// operating system again through a Source. HostSource is the gopsutil-backed
// Source used in production; tests substitute their own.
//
// # Alerts
//
// CPU, memory and disk readings carry an Alert flag that is set when the
// reported percentage is strictly greater than the configured threshold
// (80.0 by default). A value equal to the threshold does not alert.
//
// # Blocking
//
// CPU blocks for CPUInterval to measure overall usage and then for
// PerCoreInterval to measure each core. Callers that need to bound the
// total wait should pass a context with a deadline; the Sampler also applies
// its own per-call Timeout and fails with ErrSamplerTimeout when exceeded.
//
// # Errors
//
// All failures are *Error values matching one of ErrSampling,
// ErrPathNotFound or ErrSamplerTimeout with errors.Is.
//
//	s := sample.New(sample.HostSource{})
//	d, err := s.Disk(ctx, "/data")
//	if errors.Is(err, sample.ErrPathNotFound) {
//	    // bad path from the caller
//	}
package sample
