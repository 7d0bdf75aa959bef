package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/yakguide/health"
	"github.com/giygas/yakguide/lookup"
)

func TestRunProbesRecordsOutcomes(t *testing.T) {
	tracker := health.NewProbeTracker()
	probes := []lookup.ProviderProbe{
		{Provider: "medication", Run: func(ctx context.Context) error { return nil }},
		{Provider: "places", Run: func(ctx context.Context) error { return errors.New("status 403") }},
	}

	s := NewScheduler(probes, tracker, time.Minute, time.Second)
	s.runProbes()

	snapshot := tracker.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 recorded probes, got %d", len(snapshot))
	}

	medication, places := snapshot[0], snapshot[1]
	if !medication.Healthy || medication.Error != "" {
		t.Errorf("expected healthy medication probe, got %+v", medication)
	}
	if places.Healthy || places.Error != "status 403" {
		t.Errorf("expected failing places probe, got %+v", places)
	}
	if places.CheckedAt.IsZero() {
		t.Error("expected CheckedAt to be set")
	}
}

func TestRunProbeAppliesTimeout(t *testing.T) {
	tracker := health.NewProbeTracker()
	probes := []lookup.ProviderProbe{
		{Provider: "slow", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	}

	s := NewScheduler(probes, tracker, time.Minute, 20*time.Millisecond)

	start := time.Now()
	s.runProbes()
	if time.Since(start) > time.Second {
		t.Fatal("probe was not bounded by the timeout")
	}

	if snapshot := tracker.Snapshot(); snapshot[0].Healthy {
		t.Error("timed out probe must be recorded as unhealthy")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	tracker := health.NewProbeTracker()
	probes := []lookup.ProviderProbe{
		{Provider: "medication", Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}},
	}

	s := NewScheduler(probes, tracker, time.Hour, time.Second)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if runs.Load() == 0 {
		t.Error("expected the first probe to run right after Start")
	}
}

func TestStartDisabled(t *testing.T) {
	tracker := health.NewProbeTracker()
	probes := []lookup.ProviderProbe{
		{Provider: "medication", Run: func(ctx context.Context) error {
			t.Error("probe must not run when disabled")
			return nil
		}},
	}

	s := NewScheduler(probes, tracker, 0, time.Second)
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	s.Stop()

	if len(tracker.Snapshot()) != 0 {
		t.Error("expected no recorded probes")
	}
}
