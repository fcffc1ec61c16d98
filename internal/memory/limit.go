package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"imf-reader/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go heap.
const DefaultMemoryRatio = 0.85

// Source names where a memory limit came from.
type Source string

const (
	SourceNone        Source = "none"
	SourceGoMemLimit  Source = "GOMEMLIMIT"
	SourceMemoryLimit Source = "MEMORY_LIMIT"
)

// Result reports what ConfigureFromEnv did.
type Result struct {
	Configured     bool
	Source         Source
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// ConfigureFromEnv applies GOMEMLIMIT, MEMORY_LIMIT and MEMORY_RATIO from
// the environment. Call it early in main.
func ConfigureFromEnv(log *logging.Logger) Result {
	return configure(os.Getenv, debug.SetMemoryLimit, log)
}

func configure(getenv func(string) string, setLimit func(int64) int64, log *logging.Logger) Result {
	if env := getenv("GOMEMLIMIT"); env != "" {
		result := Result{Source: SourceGoMemLimit}
		if limit := setLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		log.Info("GOMEMLIMIT set via environment: %s", env)
		return result
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		log.Debug("MEMORY_LIMIT not set, GOMEMLIMIT left unconfigured")
		return Result{Source: SourceNone}
	}
	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		log.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Result{Source: SourceNone}
	}

	ratio := DefaultMemoryRatio
	if raw := getenv("MEMORY_RATIO"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			log.Warn("MEMORY_RATIO %q must be in (0, 1], using %.2f", raw, DefaultMemoryRatio)
		} else {
			ratio = parsed
		}
	}

	limit := int64(float64(containerLimit) * ratio)
	setLimit(limit)

	log.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		FormatBytes(limit), ratio*100, FormatBytes(containerLimit))

	return Result{
		Configured:     true,
		Source:         SourceMemoryLimit,
		ContainerLimit: containerLimit,
		GoMemLimit:     limit,
		Ratio:          ratio,
	}
}

// FormatBytes renders b with binary units, e.g. "1.5 GiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
