package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryRuns struct {
	mu       sync.Mutex
	started  []string
	finished map[string]string
	details  map[string]string
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{finished: map[string]string{}, details: map[string]string{}}
}

func (m *memoryRuns) StartRun(_ context.Context, _, jobType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, jobType)
	return jobType + "-run", nil
}

func (m *memoryRuns) FinishRun(_ context.Context, runID, status string, details []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished[runID] = status
	m.details[runID] = string(details)
	return nil
}

func (m *memoryRuns) status(runID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finished[runID]
}

func TestRunNowRecordsOutcome(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs)

	details, err := svc.RunNow(context.Background(), JobReadinessSweep, "", func(context.Context) (any, error) {
		return map[string]int{"campaigns": 2}, nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if details.(map[string]int)["campaigns"] != 2 {
		t.Fatalf("unexpected details %v", details)
	}
	if runs.status("readiness_sweep-run") != StatusCompleted {
		t.Fatalf("expected completed run, got %q", runs.status("readiness_sweep-run"))
	}
	if runs.details["readiness_sweep-run"] != `{"campaigns":2}` {
		t.Fatalf("unexpected details json %s", runs.details["readiness_sweep-run"])
	}

	_, err = svc.RunNow(context.Background(), "broken", "", func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected job error")
	}
	if runs.status("broken-run") != StatusFailed {
		t.Fatalf("expected failed run, got %q", runs.status("broken-run"))
	}
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	svc := New(newMemoryRuns())
	if err := svc.Schedule("every now and then", JobReadinessSweep, "", nil); err == nil {
		t.Fatal("expected schedule error")
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	runs := newMemoryRuns()
	svc := New(runs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	done := make(chan struct{})
	svc.Enqueue("queued", "org-1", func(context.Context) (any, error) {
		close(done)
		return nil, nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job did not run")
	}
	deadline := time.Now().Add(2 * time.Second)
	for runs.status("queued-run") != StatusCompleted {
		if time.Now().After(deadline) {
			t.Fatal("queued run was not finished")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
