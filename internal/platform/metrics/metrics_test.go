package metrics

import (
	"testing"
	"time"
)

func TestCollectorSnapshot(t *testing.T) {
	c := New()
	c.Record(200, 10*time.Millisecond)
	c.Record(503, 30*time.Millisecond)
	c.RecordPlan(false)
	c.RecordPlan(true)
	c.RecordPlan(true)
	c.RecordLaunch(true)

	snap := c.Snapshot()
	if snap["requestsTotal"] != uint64(2) || snap["errorsTotal"] != uint64(1) {
		t.Fatalf("unexpected request counters: %+v", snap)
	}
	if snap["avgDurationMs"] != float64(20) {
		t.Fatalf("expected avg 20ms, got %v", snap["avgDurationMs"])
	}
	if snap["planComputationsTotal"] != uint64(1) || snap["planCacheHitsTotal"] != uint64(2) {
		t.Fatalf("unexpected plan counters: %+v", snap)
	}
	if snap["launchesBlockedTotal"] != uint64(1) || snap["launchesTotal"] != uint64(0) {
		t.Fatalf("unexpected launch counters: %+v", snap)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Record(200, time.Millisecond)
	c.RecordPlan(true)
	c.RecordLaunch(false)
}
