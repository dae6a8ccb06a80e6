package capwire

import (
	"errors"
	"fmt"
	"strings"
)

// Input validation sentinels, wrapped with call-site context.
var (
	ErrZeroCapability = errors.New("capability is zero")
	ErrNilDescriptor  = errors.New("descriptor is nil")
	ErrNilFactory     = errors.New("factory func is nil")
	ErrNilRegistry    = errors.New("registry is nil")
)

// UnregisteredCapabilityError means a capability has no registered
// descriptor, or no instance exists for it in an initialized container.
type UnregisteredCapabilityError struct {
	Capability Capability
}

func (e UnregisteredCapabilityError) Error() string {
	return fmt.Sprintf("capability not registered: %s", e.Capability)
}

// DuplicateRegistrationError means a capability was registered twice
// under a strict-registration registry.
type DuplicateRegistrationError struct {
	Capability Capability
	Existing   string
}

func (e DuplicateRegistrationError) Error() string {
	return fmt.Sprintf("duplicate registration for capability %s: already provided by %s",
		e.Capability, e.Existing)
}

// CircularDependencyError means resolution re-entered an implementation
// that is still under construction.
type CircularDependencyError struct {
	Path []Capability
}

func (e CircularDependencyError) Error() string {
	if len(e.Path) == 0 {
		return "circular dependency detected"
	}
	parts := make([]string, len(e.Path))
	for i := range e.Path {
		parts[i] = e.Path[i].String()
	}
	return "circular dependency detected: " + strings.Join(parts, " -> ")
}

// InstanceCreationError wraps a factory failure with the implementation
// it was constructing.
type InstanceCreationError struct {
	Implementation string
	Err            error
}

func (e InstanceCreationError) Error() string {
	return fmt.Sprintf("create instance of %s: %v", e.Implementation, e.Err)
}

func (e InstanceCreationError) Unwrap() error {
	return e.Err
}

// TypeMismatchError means InstanceAs[T] failed to cast the cached
// instance to T.
type TypeMismatchError struct {
	Capability Capability
	Actual     string
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("instance type mismatch for %s: got %s", e.Capability, e.Actual)
}
