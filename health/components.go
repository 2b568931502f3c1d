package health

import (
	"context"

	"github.com/jonwraymond/wikiredirect/resilience"
)

// Pinger is implemented by dependencies that can be pinged, such as
// cache.S3Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker reports a dependency unhealthy when its Ping fails. An optional
// dependency is reported degraded instead, so its outage never fails
// readiness.
type PingChecker struct {
	name     string
	target   Pinger
	optional bool
}

// NewPingChecker creates a checker named name that pings a required target.
func NewPingChecker(name string, target Pinger) *PingChecker {
	return &PingChecker{name: name, target: target}
}

// NewOptionalPingChecker creates a checker named name for a target the
// service keeps working without.
func NewOptionalPingChecker(name string, target Pinger) *PingChecker {
	return &PingChecker{name: name, target: target, optional: true}
}

// Name returns the checker name.
func (c *PingChecker) Name() string { return c.name }

// Check pings the target.
func (c *PingChecker) Check(ctx context.Context) Result {
	if err := c.target.Ping(ctx); err != nil {
		if c.optional {
			r := Degraded("unreachable")
			r.Error = err
			return r
		}
		return Unhealthy("unreachable", err)
	}
	return Healthy("reachable")
}

// CacheModeChecker reports degraded when no durable cache store is
// configured, since resolutions are then forgotten on restart.
type CacheModeChecker struct {
	durable bool
}

// NewCacheModeChecker creates a checker for the configured cache tiers.
func NewCacheModeChecker(durable bool) *CacheModeChecker {
	return &CacheModeChecker{durable: durable}
}

// Name returns "cache".
func (c *CacheModeChecker) Name() string { return "cache" }

// Check reports the cache mode.
func (c *CacheModeChecker) Check(context.Context) Result {
	if !c.durable {
		return Degraded("no durable store; cache will not survive restart").
			WithDetails(map[string]any{"durable": false})
	}
	return Healthy("memory and durable tiers").WithDetails(map[string]any{"durable": true})
}

// BulkheadChecker reports degraded while every search slot is in use.
type BulkheadChecker struct {
	bulkhead *resilience.Bulkhead
}

// NewBulkheadChecker creates a checker for b.
func NewBulkheadChecker(b *resilience.Bulkhead) *BulkheadChecker {
	return &BulkheadChecker{bulkhead: b}
}

// Name returns "search_bulkhead".
func (c *BulkheadChecker) Name() string { return "search_bulkhead" }

// Check reads bulkhead statistics.
func (c *BulkheadChecker) Check(context.Context) Result {
	stats := c.bulkhead.Stats()
	details := map[string]any{
		"active":         stats.Active,
		"max_concurrent": stats.MaxConcurrent,
		"rejected":       stats.Rejected,
	}
	if stats.Available == 0 {
		return Degraded("search concurrency saturated").WithDetails(details)
	}
	return Healthy("search capacity available").WithDetails(details)
}
