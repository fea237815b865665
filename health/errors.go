package health

import "errors"

var (
	// ErrUnknownStatus indicates a status name that is not HEALTHY, WARNING or CRITICAL.
	ErrUnknownStatus = errors.New("health: unknown status")

	// ErrNilSampler indicates an Aggregator was built without a sampler.
	ErrNilSampler = errors.New("health: nil sampler")
)
