// Package scheduler runs periodic provider probes so that /health reflects
// whether the medication and place providers currently answer.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/lookup"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// Scheduler probes every provider at a fixed interval
type Scheduler struct {
	probes    []lookup.ProviderProbe
	recorder  interfaces.ProbeRecorder
	interval  time.Duration
	timeout   time.Duration
	scheduler *gocron.Scheduler
}

// NewScheduler creates a new scheduler. A zero interval disables probing.
func NewScheduler(probes []lookup.ProviderProbe, recorder interfaces.ProbeRecorder, interval, timeout time.Duration) *Scheduler {
	return &Scheduler{
		probes:    probes,
		recorder:  recorder,
		interval:  interval,
		timeout:   timeout,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start schedules the probe job; the first run happens immediately
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logging.Info("Provider probes disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.runProbes)
	if err != nil {
		logging.Error("Failed to schedule provider probes", "error", err)
		return fmt.Errorf("failed to schedule provider probes: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Provider probes scheduled", "interval", s.interval.String(), "providers", len(s.probes))

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// runProbes runs each probe once and records the outcome
func (s *Scheduler) runProbes() {
	for _, probe := range s.probes {
		s.recorder.Record(s.runProbe(probe))
	}
}

func (s *Scheduler) runProbe(probe lookup.ProviderProbe) interfaces.ProbeStatus {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	err := probe.Run(ctx)
	elapsed := time.Since(start)

	status := interfaces.ProbeStatus{
		Provider:  probe.Provider,
		Healthy:   err == nil,
		CheckedAt: time.Now(),
		Latency:   float64(elapsed.Microseconds()) / 1000,
	}

	if err != nil {
		status.Error = err.Error()
		logging.Warn("Provider probe failed", "provider", probe.Provider, "error", err)
	} else {
		logging.Debug("Provider probe succeeded", "provider", probe.Provider, "duration_ms", elapsed.Milliseconds())
	}

	return status
}
