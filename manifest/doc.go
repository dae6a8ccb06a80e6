// Package manifest provides build-time manifest discovery for capwire.
//
// A Catalog binds component names to descriptors in code; a YAML
// manifest then selects which components a deployment enables. The
// Discoverer satisfies capwire.Discoverer, so manifests plug into
// capwire.Scan like any other discovery source.
package manifest
