package imferr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	// ErrInvalidData indicates a document violated a structural expectation
	// (missing element, wrong root name, unparsable UUID).
	ErrInvalidData = errors.New("invalid data")

	// ErrIO indicates a transport failure: open or read error, a short read,
	// or a read that did not reach a clean end-of-stream.
	ErrIO = errors.New("i/o failure")

	// ErrNotFound indicates a requested UUID is not present in the asset map.
	ErrNotFound = errors.New("not found")

	// ErrAllocation indicates a table could not grow to hold another entry.
	ErrAllocation = errors.New("allocation failure")
)

// InvalidData returns an error wrapping ErrInvalidData with a message naming
// the violated expectation.
func InvalidData(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidData)
}

// IO returns an error wrapping ErrIO. The underlying cause, if any, stays
// reachable through errors.Is / errors.As.
func IO(op string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", op, ErrIO)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrIO, err)
}

// NotFound returns an error wrapping ErrNotFound.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Allocation returns an error wrapping ErrAllocation.
func Allocation(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAllocation)
}

// Kind returns a short label for the error kind, used for metric labels and
// HTTP status mapping. Unclassified errors report "other".
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidData):
		return "invalid_data"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAllocation):
		return "allocation"
	case errors.Is(err, ErrIO):
		return "io"
	default:
		return "other"
	}
}
