// Package registry keeps the in-memory list of preferred visit addresses.
// Entries live for the lifetime of the process and are never persisted.
package registry

import (
	"sync"
	"time"

	"github.com/giygas/yakguide/entities"
	"github.com/giygas/yakguide/interfaces"
	"github.com/giygas/yakguide/logging"
	"github.com/giygas/yakguide/metrics"
	"github.com/giygas/yakguide/validation"
)

// Compile-time check to ensure AddressRegistry implements AddressStore
var _ interfaces.AddressStore = (*AddressRegistry)(nil)

// AddressRegistry is an append-only, insertion-ordered address list safe for
// concurrent use. Duplicates are kept.
type AddressRegistry struct {
	mu        sync.RWMutex
	entries   []entities.AddressEntry
	validator interfaces.InputValidator
	now       func() time.Time
}

// NewAddressRegistry creates an empty registry
func NewAddressRegistry(validator interfaces.InputValidator) *AddressRegistry {
	if validator == nil {
		validator = validation.NewInputValidator()
	}
	return &AddressRegistry{
		entries:   make([]entities.AddressEntry, 0),
		validator: validator,
		now:       time.Now,
	}
}

// Append validates address and adds it to the end of the list
func (r *AddressRegistry) Append(address string) error {
	address, err := r.validator.NormalizeInput(address)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = append(r.entries, entities.AddressEntry{
		Address: address,
		AddedAt: r.now(),
	})
	size := len(r.entries)
	r.mu.Unlock()

	metrics.AddressRegistrySize.Set(float64(size))
	logging.Debug("Address added to registry", "entries", size)

	return nil
}

// List returns a copy of the entries in insertion order
func (r *AddressRegistry) List() []entities.AddressEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.AddressEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries
func (r *AddressRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
