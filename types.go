package capwire

import (
	"fmt"
	"reflect"
)

// Capability identifies an abstract service type (normally an interface).
// It is the key for registration and instance lookup. Identity is the
// declared Go type itself, so two capabilities with the same display name
// but different declarations remain distinct.
type Capability struct {
	typ reflect.Type
}

// CapabilityOf returns the capability key for the type T.
func CapabilityOf[T any]() Capability {
	return Capability{typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// IsZero reports whether the capability carries no type.
func (c Capability) IsZero() bool {
	return c.typ == nil
}

// Type returns the underlying declared type.
func (c Capability) Type() reflect.Type {
	return c.typ
}

func (c Capability) String() string {
	if c.typ == nil {
		return "<zero capability>"
	}
	return c.typ.String()
}

// Factory produces an instance from already-resolved dependency instances.
// The deps slice matches the descriptor's required-capability order.
type Factory func(deps []any) (any, error)

// Descriptor is the compiled, type-erased form of one component
// definition: which capabilities it provides, which capabilities its
// constructor requires (in order), and the factory that builds it.
type Descriptor struct {
	impl     reflect.Type
	provides []Capability
	requires []Capability
	factory  Factory
}

// Implementation returns the concrete implementation type name.
func (d *Descriptor) Implementation() string {
	return d.impl.String()
}

// Provides returns the capabilities this component implements.
func (d *Descriptor) Provides() []Capability {
	return append([]Capability(nil), d.provides...)
}

// Requires returns the ordered constructor dependency capabilities.
func (d *Descriptor) Requires() []Capability {
	return append([]Capability(nil), d.requires...)
}

// Component declares one concrete implementation with generics.
//
// Provides lists the capabilities the implementation satisfies.
// Requires lists its constructor dependencies in parameter order.
// New constructs the instance from resolved dependencies, which arrive
// in Requires order. A component has exactly one constructor.
type Component[Impl any] struct {
	Provides []Capability
	Requires []Capability
	New      func(deps []any) (Impl, error)
}

// Describe compiles a typed component declaration into a Descriptor.
func Describe[Impl any](c Component[Impl]) (*Descriptor, error) {
	impl := reflect.TypeOf((*Impl)(nil)).Elem()
	if c.New == nil {
		return nil, fmt.Errorf("describe component %s: %w", impl, ErrNilFactory)
	}
	if len(c.Provides) == 0 {
		return nil, fmt.Errorf("describe component %s: provides list is empty", impl)
	}
	for _, p := range c.Provides {
		if p.IsZero() {
			return nil, fmt.Errorf("describe component %s: provided %w", impl, ErrZeroCapability)
		}
	}
	for _, r := range c.Requires {
		if r.IsZero() {
			return nil, fmt.Errorf("describe component %s: required %w", impl, ErrZeroCapability)
		}
	}

	return &Descriptor{
		impl:     impl,
		provides: append([]Capability(nil), c.Provides...),
		requires: append([]Capability(nil), c.Requires...),
		factory: func(deps []any) (any, error) {
			return c.New(deps)
		},
	}, nil
}

// MustDescribe panics on a describe error; intended for bootstrap code paths.
func MustDescribe[Impl any](c Component[Impl]) *Descriptor {
	d, err := Describe(c)
	if err != nil {
		panic(err)
	}
	return d
}
