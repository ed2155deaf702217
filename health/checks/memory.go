package checks

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pleme-io/pleme-health/health"
)

// MemoryConfig configures the memory health checker.
type MemoryConfig struct {
	// WarningThreshold is the usage ratio reported as "high" while still healthy.
	// Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the usage ratio that makes the check unhealthy.
	// Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the maximum expected heap allocation in bytes.
	// If zero, the memory obtained from the OS is used.
	MaxAlloc uint64
}

// MemoryChecker checks heap usage against configured thresholds.
type MemoryChecker struct {
	config MemoryConfig
	stats  func(*runtime.MemStats)
}

// Memory creates a new memory health checker.
func Memory(config MemoryConfig) *MemoryChecker {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold + 0.1
		if config.CriticalThreshold > 1 {
			config.CriticalThreshold = 0.99
		}
	}

	return &MemoryChecker{config: config, stats: runtime.ReadMemStats}
}

// Check performs the memory health check.
func (m *MemoryChecker) Check(ctx context.Context) health.Result {
	select {
	case <-ctx.Done():
		return health.Unknown(fmt.Sprintf("memory check cancelled: %v", ctx.Err()))
	default:
	}

	var stats runtime.MemStats
	m.stats(&stats)

	maxAlloc := m.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	if maxAlloc == 0 {
		return health.Unknown("memory stats unavailable")
	}

	usage := float64(stats.Alloc) / float64(maxAlloc) * 100

	switch ratio := usage / 100; {
	case ratio >= m.config.CriticalThreshold:
		return health.Unhealthy(fmt.Sprintf("memory usage critical: %.1f%%", usage))
	case ratio >= m.config.WarningThreshold:
		return health.HealthyWithMessage(fmt.Sprintf("memory usage high: %.1f%%", usage))
	default:
		return health.HealthyWithMessage(fmt.Sprintf("memory usage normal: %.1f%%", usage))
	}
}
