package tabular

import "errors"

var (
	// ErrNotFound indicates no record carries the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidArgument indicates a query with page < 1 or size < 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLoadFailure indicates the backing dataset exists but cannot be parsed.
	ErrLoadFailure = errors.New("failed to load dataset")
)
