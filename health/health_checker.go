// Package health provides health checking functionality for the lookup service.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/yakguide/interfaces"
)

// Health status labels
const (
	StatusHealthy   = "healthy"
	StatusStarting  = "starting"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// staleProbeFactor is how many probe intervals may pass before a result is stale
const staleProbeFactor = 3

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	probes        interfaces.ProbeRecorder
	addresses     interfaces.AddressStore
	probeInterval time.Duration
	startTime     time.Time
	now           func() time.Time
}

// NewHealthChecker creates a new health checker with injected dependencies.
// A zero probeInterval means probes are disabled and only liveness is reported.
func NewHealthChecker(probes interfaces.ProbeRecorder, addresses interfaces.AddressStore, probeInterval time.Duration) *HealthCheckerImpl {
	return &HealthCheckerImpl{
		probes:        probes,
		addresses:     addresses,
		probeInterval: probeInterval,
		startTime:     time.Now(),
		now:           time.Now,
	}
}

// HealthCheck returns the status label, response data and HTTP status
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	now := h.now()

	var snapshot []interfaces.ProbeStatus
	if h.probes != nil {
		snapshot = h.probes.Snapshot()
	}

	failing := 0
	for _, probe := range snapshot {
		if !probe.Healthy || h.isStale(probe, now) {
			failing++
		}
	}

	switch {
	case h.probeInterval == 0:
		status, httpStatus = StatusHealthy, http.StatusOK
	case len(snapshot) == 0:
		status, httpStatus = StatusStarting, http.StatusOK
	case failing == 0:
		status, httpStatus = StatusHealthy, http.StatusOK
	case failing < len(snapshot):
		status, httpStatus = StatusDegraded, http.StatusServiceUnavailable
	default:
		status, httpStatus = StatusUnhealthy, http.StatusServiceUnavailable
	}

	addressCount := 0
	if h.addresses != nil {
		addressCount = h.addresses.Len()
	}

	data = map[string]any{
		"uptime_seconds": math.Round(now.Sub(h.startTime).Seconds()),
		"probes_enabled": h.probeInterval > 0,
		"providers":      snapshot,
		"address_count":  addressCount,
	}

	return status, data, httpStatus
}

func (h *HealthCheckerImpl) isStale(probe interfaces.ProbeStatus, now time.Time) bool {
	if h.probeInterval <= 0 {
		return false
	}
	return now.Sub(probe.CheckedAt) > staleProbeFactor*h.probeInterval
}
