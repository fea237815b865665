// Package observe provides the logging, tracing and metrics used across
// opsdash.
//
// An Observer owns the OpenTelemetry tracer and meter providers and a JSON
// structured Logger. Middleware wraps a single operation (a health report,
// a file cleanup, a data analysis) so that it gets a span, an entry in the
// ops.exec.* instruments and a log line. RecordReport publishes the latest
// host readings as gauges.
//
// When the metrics exporter is "prometheus", MetricsHandler serves the
// scrape endpoint from a dedicated registry.
package observe
