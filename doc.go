// Package capwire provides a minimal inversion-of-control container with
// eager, constructor-injected initialization.
//
// It offers:
// - a capability (interface type) to implementation registry
// - component discovery through a pluggable descriptor boundary
// - depth-first dependency resolution with cycle detection
// - a one-instance-per-capability cache, immutable once initialized
package capwire
