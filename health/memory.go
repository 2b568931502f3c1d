package health

import (
	"context"
	"fmt"
	"runtime"
)

// MemoryCheckerConfig configures the memory health checker.
type MemoryCheckerConfig struct {
	// WarningThreshold is the heap-to-limit ratio that reports degraded.
	// Default: 0.8
	WarningThreshold float64

	// CriticalThreshold is the heap-to-limit ratio that reports unhealthy.
	// Default: 0.95
	CriticalThreshold float64

	// Limit is the memory budget in bytes, e.g. the dyno's quota. Zero means
	// memory obtained from the OS so far.
	Limit uint64
}

// MemoryChecker checks heap usage against a budget.
type MemoryChecker struct {
	config MemoryCheckerConfig
}

// NewMemoryChecker creates a new memory health checker.
func NewMemoryChecker(config MemoryCheckerConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= config.WarningThreshold || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = max(0.95, config.WarningThreshold)
	}
	return &MemoryChecker{config: config}
}

// Name returns "memory".
func (m *MemoryChecker) Name() string { return "memory" }

// Check reads runtime memory statistics.
func (m *MemoryChecker) Check(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return Unhealthy("context cancelled", err)
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	limit := m.config.Limit
	if limit == 0 {
		limit = stats.Sys
	}
	if limit == 0 {
		return Healthy("memory stats unavailable")
	}

	ratio := float64(stats.HeapAlloc) / float64(limit)
	details := map[string]any{
		"heap_alloc_bytes": stats.HeapAlloc,
		"limit_bytes":      limit,
		"usage_percent":    ratio * 100,
		"num_gc":           stats.NumGC,
		"goroutines":       runtime.NumGoroutine(),
	}

	msg := fmt.Sprintf("memory usage %.1f%%", ratio*100)
	switch {
	case ratio >= m.config.CriticalThreshold:
		return Unhealthy(msg, ErrCheckFailed).WithDetails(details)
	case ratio >= m.config.WarningThreshold:
		return Degraded(msg).WithDetails(details)
	default:
		return Healthy(msg).WithDetails(details)
	}
}
