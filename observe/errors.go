package observe

import "errors"

var (
	// ErrMissingServiceName is returned when Config.ServiceName is empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct is returned when Tracing.SamplePct is outside [0, 1].
	ErrInvalidSamplePct = errors.New("observe: trace sample ratio must be within [0, 1]")

	// ErrInvalidTracingExporter is returned for an unsupported trace exporter.
	ErrInvalidTracingExporter = errors.New("observe: unsupported tracing exporter")

	// ErrInvalidMetricsExporter is returned for an unsupported metrics exporter.
	ErrInvalidMetricsExporter = errors.New("observe: unsupported metrics exporter")

	// ErrInvalidLogLevel is returned for a level ParseLogLevel does not know.
	ErrInvalidLogLevel = errors.New("observe: unknown log level")

	// ErrMissingOpName is returned when OpMeta.Name is empty.
	ErrMissingOpName = errors.New("observe: operation name is required")
)

// RedactedFields are log field keys whose values are replaced before
// writing. Upload and housekeeping handlers log request metadata, so
// headers that may carry credentials are listed too.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"authorization",
	"cookie",
	"credential",
}
