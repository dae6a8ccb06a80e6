package capwire

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// RegistryOption configures registry behavior.
type RegistryOption func(*Registry)

// WithStrictRegistration makes Register fail with
// DuplicateRegistrationError when a capability is registered twice,
// instead of overwriting the earlier mapping.
func WithStrictRegistration() RegistryOption {
	return func(r *Registry) { r.strict = true }
}

// Registry maps each capability to the descriptor chosen to implement it.
//
// It is populated during the scan phase and treated as read-only once
// container initialization begins. By default a later registration for
// the same capability overwrites the earlier one.
type Registry struct {
	strict bool

	mu   sync.RWMutex
	defs map[Capability]*Descriptor
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		defs: make(map[Capability]*Descriptor),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register stores the capability -> descriptor mapping.
func (r *Registry) Register(capability Capability, desc *Descriptor) error {
	if capability.IsZero() {
		return fmt.Errorf("register: %w", ErrZeroCapability)
	}
	if desc == nil {
		return fmt.Errorf("register capability %s: %w", capability, ErrNilDescriptor)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.defs[capability]; ok && r.strict {
		return DuplicateRegistrationError{
			Capability: capability,
			Existing:   existing.Implementation(),
		}
	}
	r.defs[capability] = desc
	return nil
}

// Lookup returns the descriptor registered for the capability.
func (r *Registry) Lookup(capability Capability) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.defs[capability]
	return desc, ok
}

// Capabilities returns all registered capability keys in no particular order.
func (r *Registry) Capabilities() []Capability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.defs)
}

func (r *Registry) snapshot() map[Capability]*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Capability]*Descriptor, len(r.defs))
	for k, v := range r.defs {
		out[k] = v
	}
	return out
}
