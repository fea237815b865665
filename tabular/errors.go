package tabular

import "errors"

var (
	// ErrUnsupportedFormat indicates a file suffix other than .csv or .json.
	ErrUnsupportedFormat = errors.New("tabular: unsupported file format")

	// ErrNoData indicates a file without a header or records.
	ErrNoData = errors.New("tabular: no data")

	// ErrMalformed indicates a file that could not be parsed.
	ErrMalformed = errors.New("tabular: malformed data")
)
