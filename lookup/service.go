// Package lookup turns raw user input into provider queries and normalizes
// the answers into display records. Every call ends in exactly one Result
// variant; no transport or decoding fault escapes to the caller.
package lookup

import (
	"context"
	"errors"

	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/metrics"
	"github.com/giygas/yakguide/validation"
)

// Provider labels used in errors, logs and metrics
const (
	ProviderMedication = "medication"
	ProviderPlaces     = "places"
)

// Flow labels
const (
	FlowMedication = "medication"
	FlowSymptom    = "symptom"
	FlowPharmacy   = "pharmacy"
)

// Fixed page sizes
const (
	SymptomPageSize = 5
	PharmacyLimit   = 10
)

// pharmacySuffix biases the text search toward pharmacies
const pharmacySuffix = "약국"

// Endpoints holds the provider URLs and their static API keys
type Endpoints struct {
	DrugURL   string
	DrugKey   string
	PlacesURL string
	PlacesKey string
}

// Service runs the three lookup flows
type Service struct {
	drugs     interfaces.JSONFetcher
	places    interfaces.JSONFetcher
	validator interfaces.InputValidator
	endpoints Endpoints
}

// NewService creates a lookup service with injected dependencies
func NewService(drugs, places interfaces.JSONFetcher, validator interfaces.InputValidator, endpoints Endpoints) *Service {
	if validator == nil {
		validator = validation.NewInputValidator()
	}
	return &Service{
		drugs:     drugs,
		places:    places,
		validator: validator,
		endpoints: endpoints,
	}
}

// observe records the outcome of a flow
func observe[T any](flow string, result Result[T]) Result[T] {
	metrics.LookupResultTotals.WithLabelValues(flow, result.Status.String()).Inc()

	if result.Status == StatusFailed && !validation.IsValidationError(result.Err) {
		level := logging.Warn
		if errors.Is(result.Err, context.Canceled) {
			level = logging.Debug
		}
		level("Lookup failed", "flow", flow, "error", result.Err)
	}

	return result
}
