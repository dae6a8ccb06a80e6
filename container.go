package capwire

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the progress logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Container) { c.log = log }
}

// Container is the runtime holder for capability instances.
//
// InitializeAll eagerly constructs every registered capability exactly
// once, resolving constructor dependencies depth-first. Afterward the
// instance cache is immutable, so concurrent readers need no
// coordination beyond the internal lock.
//
// Cycle detection keys the creation-in-progress marker by
// implementation type, not by capability: when one implementation
// provides several capabilities, re-entering it through any of them
// while it is still under construction is reported as a cycle.
type Container struct {
	registry *Registry
	log      zerolog.Logger

	mu        sync.RWMutex
	instances map[Capability]any

	// creation-in-progress bookkeeping; populated only during
	// InitializeAll and empty before and after it.
	creating map[reflect.Type]int
	stack    []Capability
}

func New(registry *Registry, opts ...Option) (*Container, error) {
	if registry == nil {
		return nil, fmt.Errorf("new container: %w", ErrNilRegistry)
	}
	c := &Container{
		registry:  registry,
		log:       zerolog.Nop(),
		instances: make(map[Capability]any),
		creating:  make(map[reflect.Type]int),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// InitializeAll eagerly constructs one instance per registered
// capability, dependencies first. Any failure abandons the partial
// result: no instances remain observable and the error is returned.
// Re-running after success is a per-capability no-op.
func (c *Container) InitializeAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	capabilities := c.registry.Capabilities()
	c.log.Info().Int("capabilities", len(capabilities)).Msg("initializing container")

	for _, capability := range capabilities {
		if err := c.resolve(capability); err != nil {
			c.instances = make(map[Capability]any)
			c.creating = make(map[reflect.Type]int)
			c.stack = c.stack[:0]
			return err
		}
	}

	c.log.Info().Int("instances", len(c.instances)).Msg("container initialized")
	return nil
}

// resolve runs one depth-first resolution pass for a capability.
// The caller holds c.mu; bookkeeping left behind on failure is cleared
// by InitializeAll.
func (c *Container) resolve(capability Capability) error {
	if _, ok := c.instances[capability]; ok {
		return nil
	}

	desc, ok := c.registry.Lookup(capability)
	if !ok {
		return UnregisteredCapabilityError{Capability: capability}
	}

	if pos, inProgress := c.creating[desc.impl]; inProgress {
		path := append([]Capability(nil), c.stack[pos:]...)
		path = append(path, capability)
		return CircularDependencyError{Path: path}
	}

	c.creating[desc.impl] = len(c.stack)
	c.stack = append(c.stack, capability)

	deps := make([]any, len(desc.requires))
	for i, req := range desc.requires {
		if err := c.resolve(req); err != nil {
			return err
		}
		deps[i] = c.instances[req]
	}

	instance, err := desc.factory(deps)
	if err != nil {
		return InstanceCreationError{Implementation: desc.Implementation(), Err: err}
	}

	c.instances[capability] = instance
	c.stack = c.stack[:len(c.stack)-1]
	delete(c.creating, desc.impl)

	c.log.Debug().
		Stringer("capability", capability).
		Str("implementation", desc.Implementation()).
		Msg("instance created")
	return nil
}

// Instance returns the initialized instance for a capability.
func (c *Container) Instance(capability Capability) (any, error) {
	if capability.IsZero() {
		return nil, fmt.Errorf("get instance: %w", ErrZeroCapability)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	instance, ok := c.instances[capability]
	if !ok {
		return nil, UnregisteredCapabilityError{Capability: capability}
	}
	return instance, nil
}

// InstanceAs is a typed wrapper around Instance keyed by CapabilityOf[T].
func InstanceAs[T any](c *Container) (T, error) {
	var zero T
	capability := CapabilityOf[T]()
	instance, err := c.Instance(capability)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, TypeMismatchError{
			Capability: capability,
			Actual:     fmt.Sprintf("%T", instance),
		}
	}
	return typed, nil
}
