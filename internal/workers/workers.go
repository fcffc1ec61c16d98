package workers

import (
	"os"
	"runtime"
	"strconv"
)

// EnvOverride names the environment variable that fixes the worker count.
const EnvOverride = "VERIFY_WORKERS"

// Count returns the number of workers for a task with the given
// workers-per-CPU multiplier. It respects container CPU limits via
// GOMAXPROCS (Go 1.19+).
//
// The limit parameter caps the worker count to prevent resource exhaustion.
// Use 0 for no limit.
//
// Can be overridden with the VERIFY_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU), such as
// stat calls against local, HTTP or S3 storage.
// The limit parameter caps the maximum number of workers.
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// Resolve returns requested when it is positive, otherwise ForIO(limit).
func Resolve(requested, limit int) int {
	if requested > 0 {
		if limit > 0 && requested > limit {
			return limit
		}
		return requested
	}
	return ForIO(limit)
}
