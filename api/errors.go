package api

import (
	"errors"
	"net/http"

	"github.com/jonwraymond/opsdash/files"
	"github.com/jonwraymond/opsdash/resilience"
	"github.com/jonwraymond/opsdash/sample"
	"github.com/jonwraymond/opsdash/tabular"
)

var (
	// ErrBinaryUpload indicates an upload whose content is a known binary
	// format rather than CSV or JSON text.
	ErrBinaryUpload = errors.New("api: uploaded content is not tabular text")

	// ErrMissingDependency indicates New was called without a required
	// dependency.
	ErrMissingDependency = errors.New("api: missing dependency")

	errEncodeResponse = errors.New("api: failed to encode response")
)

// statusFor maps an operation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sample.ErrPathNotFound), errors.Is(err, files.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, sample.ErrSamplerTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, resilience.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrBulkheadFull):
		return http.StatusServiceUnavailable
	case errors.Is(err, files.ErrOutsideRoot), errors.Is(err, files.ErrNotDir), errors.Is(err, files.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, tabular.ErrUnsupportedFormat), errors.Is(err, ErrBinaryUpload):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, tabular.ErrMalformed), errors.Is(err, tabular.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
