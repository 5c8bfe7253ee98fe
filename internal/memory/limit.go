package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"asset-transcoder/internal/logging"
	"asset-transcoder/internal/metrics"
)

// DefaultMemoryRatio is the share of the container limit given to the Go
// heap. The remainder covers esbuild's buffers and goroutine stacks.
const DefaultMemoryRatio = 0.85

// Source says where the memory limit came from.
type Source string

const (
	SourceNone        Source = "none"
	SourceGOMEMLIMIT  Source = "GOMEMLIMIT"
	SourceMemoryLimit Source = "MEMORY_LIMIT"
)

// Limit describes the outcome of Configure.
type Limit struct {
	Source Source
	// ContainerLimit is MEMORY_LIMIT in bytes, 0 if not used.
	ContainerLimit int64
	// GoMemLimit is the soft limit applied to the runtime, 0 if none.
	GoMemLimit int64
	Ratio      float64
}

// Configured reports whether a soft limit is in effect.
func (l Limit) Configured() bool {
	return l.GoMemLimit > 0
}

// setMemoryLimit is swapped out in tests.
var setMemoryLimit = debug.SetMemoryLimit

// ConfigureFromEnv applies Configure to the process environment. Call it
// early in main, before significant allocations.
func ConfigureFromEnv() Limit {
	return Configure(os.Getenv)
}

// Configure sets the Go soft memory limit from:
//   - GOMEMLIMIT: honoured as-is when set (the runtime already applied it)
//   - MEMORY_LIMIT: container limit in bytes, e.g. from the Kubernetes
//     Downward API
//   - MEMORY_RATIO: share of MEMORY_LIMIT for the heap (default 0.85)
func Configure(getenv func(string) string) Limit {
	if v := getenv("GOMEMLIMIT"); v != "" {
		limit := Limit{Source: SourceGOMEMLIMIT}
		if current := setMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			limit.GoMemLimit = current
		}
		logging.Info("GOMEMLIMIT set via environment: %s", v)
		return record(limit)
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, GOMEMLIMIT will not be configured")
		return record(Limit{Source: SourceNone})
	}

	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return record(Limit{Source: SourceNone})
	}

	ratio := parseRatio(getenv("MEMORY_RATIO"))
	goLimit := int64(float64(containerLimit) * ratio)
	setMemoryLimit(goLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
		formatBytes(goLimit), ratio*100, formatBytes(containerLimit))

	return record(Limit{
		Source:         SourceMemoryLimit,
		ContainerLimit: containerLimit,
		GoMemLimit:     goLimit,
		Ratio:          ratio,
	})
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultMemoryRatio
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logging.Warn("Failed to parse MEMORY_RATIO %q: %v, using default %.2f", raw, err, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	if ratio <= 0 || ratio > 1.0 {
		logging.Warn("MEMORY_RATIO %q out of range (0.0-1.0], using default %.2f", raw, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	return ratio
}

func record(l Limit) Limit {
	metrics.GoMemoryLimitBytes.Set(float64(l.GoMemLimit))
	return l
}

// formatBytes renders b using binary units.
func formatBytes(b int64) string {
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
