package lookup

import (
	"errors"
	"fmt"
)

// ErrPharmacyUnavailable is the failure surfaced by the pharmacy flow when the
// place provider cannot be reached or its answer has no results list.
var ErrPharmacyUnavailable = errors.New("pharmacy information could not be loaded")

// errMissingResults marks a place-search payload without a results list
var errMissingResults = errors.New(`response has no "results" list`)

// ProviderError is returned when a provider answers but rejects the request,
// for example with an invalid service key.
type ProviderError struct {
	Provider string
	Code     string
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s provider rejected the request (code %s)", e.Provider, e.Code)
	}
	return fmt.Sprintf("%s provider rejected the request (code %s): %s", e.Provider, e.Code, e.Message)
}
