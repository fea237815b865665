// Package health turns host metric readings into a health verdict.
//
// The Aggregator takes one reading from every sampler and counts how many
// of CPU, memory and disk are strictly above the alert threshold:
//
//	0 alerts   HEALTHY
//	1 alert    WARNING
//	2 or 3     CRITICAL
//
// Network and process readings are reported but never affect the verdict.
//
// # Basic Usage
//
//	agg := health.NewAggregator(sample.New(sample.HostSource{}), health.AggregatorConfig{
//	    AlertThreshold: 80,
//	})
//	report, err := agg.Generate(ctx, health.Request{DiskPath: "/"})
//	if err != nil {
//	    // a sampler failed; no partial report is produced
//	}
//	fmt.Println(report.OverallHealth)
//
// # HTTP Endpoints
//
// LivenessHandler and ReadinessHandler serve probe endpoints. Readiness
// fails only when the host is CRITICAL or cannot be sampled.
//
//	health.RegisterHandlers(mux, agg)
package health
