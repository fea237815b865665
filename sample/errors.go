package sample

import (
	"errors"
	"fmt"
)

var (
	// ErrSampling indicates the operating system could not be queried.
	ErrSampling = errors.New("sample: sampling failed")

	// ErrPathNotFound indicates a disk path does not exist or is not accessible.
	ErrPathNotFound = errors.New("sample: path not found")

	// ErrSamplerTimeout indicates a sampler did not finish within its deadline.
	ErrSamplerTimeout = errors.New("sample: sampler timed out")
)

// Error describes a failed reading.
type Error struct {
	// Op is the sampler that failed: cpu, memory, disk, network or processes.
	Op string

	// Path is the disk path for disk readings.
	Path string

	// Kind is one of ErrSampling, ErrPathNotFound or ErrSamplerTimeout.
	Kind error

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	subject := e.Op
	if e.Path != "" {
		subject = fmt.Sprintf("%s %q", e.Op, e.Path)
	}
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, subject)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, subject, e.Err)
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
