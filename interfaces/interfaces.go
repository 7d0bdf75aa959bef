// Package interfaces defines core abstractions for the lookup service
// to improve testability and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/yakguide/entities"
)

// JSONFetcher issues one GET request and decodes the JSON object it returns.
// Failures are returned as values and never panic.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, endpoint string, params map[string]string) (map[string]any, error)
}

// InputValidator normalizes raw user text before it is used in a query
type InputValidator interface {
	// NormalizeInput returns the cleaned input or a validation error
	NormalizeInput(raw string) (string, error)
}

// AddressStore is the append-only registry of preferred visit addresses
type AddressStore interface {
	Append(address string) error
	List() []entities.AddressEntry
	Len() int
}

// ProbeStatus is the outcome of the most recent provider probe
type ProbeStatus struct {
	Provider  string    `json:"provider"`
	Healthy   bool      `json:"healthy"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
	Latency   float64   `json:"latency_ms"`
}

// ProbeRecorder stores probe outcomes for health reporting
type ProbeRecorder interface {
	Record(status ProbeStatus)
	Snapshot() []ProbeStatus
}

// Scheduler defines the contract for background jobs
type Scheduler interface {
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality
type HealthChecker interface {
	// HealthCheck returns the status label, details and the HTTP status to send
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// HTTPHandler defines the contract for HTTP request handlers
type HTTPHandler interface {
	FindMedicationByName(w http.ResponseWriter, r *http.Request)
	FindMedicationsBySymptom(w http.ResponseWriter, r *http.Request)
	FindPharmacies(w http.ResponseWriter, r *http.Request)
	AddAddress(w http.ResponseWriter, r *http.Request)
	ListAddresses(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
