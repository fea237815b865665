package files

import "errors"

var (
	// ErrOutsideRoot indicates a path that resolves outside the root.
	ErrOutsideRoot = errors.New("files: path escapes root")

	// ErrNotFound indicates a missing file or directory.
	ErrNotFound = errors.New("files: not found")

	// ErrNotDir indicates a path that must be a directory but is not.
	ErrNotDir = errors.New("files: not a directory")

	// ErrInvalidArgument indicates an argument outside its allowed range.
	ErrInvalidArgument = errors.New("files: invalid argument")
)
