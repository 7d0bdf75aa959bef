package health

import (
	"sort"
	"sync"

	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/metrics"
)

// Compile-time check to ensure ProbeTracker implements ProbeRecorder
var _ interfaces.ProbeRecorder = (*ProbeTracker)(nil)

// ProbeTracker keeps the latest probe outcome per provider
type ProbeTracker struct {
	mu     sync.RWMutex
	latest map[string]interfaces.ProbeStatus
}

// NewProbeTracker creates an empty tracker
func NewProbeTracker() *ProbeTracker {
	return &ProbeTracker{latest: make(map[string]interfaces.ProbeStatus)}
}

// Record replaces the stored status for status.Provider
func (t *ProbeTracker) Record(status interfaces.ProbeStatus) {
	t.mu.Lock()
	t.latest[status.Provider] = status
	t.mu.Unlock()

	up := 0.0
	if status.Healthy {
		up = 1
	}
	metrics.ProviderProbeUp.WithLabelValues(status.Provider).Set(up)
}

// Snapshot returns the stored statuses sorted by provider name
func (t *ProbeTracker) Snapshot() []interfaces.ProbeStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]interfaces.ProbeStatus, 0, len(t.latest))
	for _, status := range t.latest {
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
