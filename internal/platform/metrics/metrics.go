package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests    uint64
	errorRequests    uint64
	totalDurationMs  uint64
	planComputations uint64
	planCacheHits    uint64
	launchesBlocked  uint64
	launches         uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordPlan counts one preview resolution; hit is true when it came from the plan cache.
func (c *Collector) RecordPlan(hit bool) {
	if c == nil {
		return
	}
	if hit {
		atomic.AddUint64(&c.planCacheHits, 1)
		return
	}
	atomic.AddUint64(&c.planComputations, 1)
}

func (c *Collector) RecordLaunch(blocked bool) {
	if c == nil {
		return
	}
	if blocked {
		atomic.AddUint64(&c.launchesBlocked, 1)
		return
	}
	atomic.AddUint64(&c.launches, 1)
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":         total,
		"errorsTotal":           errs,
		"avgDurationMs":         avg,
		"totalDurationMs":       totalMs,
		"planComputationsTotal": atomic.LoadUint64(&c.planComputations),
		"planCacheHitsTotal":    atomic.LoadUint64(&c.planCacheHits),
		"launchesTotal":         atomic.LoadUint64(&c.launches),
		"launchesBlockedTotal":  atomic.LoadUint64(&c.launchesBlocked),
	}
}
