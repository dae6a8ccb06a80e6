package capwire

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Discoverer enumerates component descriptors from a named source set.
//
// The concrete mechanism is substitutable: a build-time manifest, an
// explicit in-code list, or anything else that can yield descriptors.
// The container core depends only on this contract.
type Discoverer interface {
	Discover(ctx context.Context, sourceSet string) ([]*Descriptor, error)
}

// DiscoverFunc adapts a function to the Discoverer interface.
type DiscoverFunc func(ctx context.Context, sourceSet string) ([]*Descriptor, error)

func (f DiscoverFunc) Discover(ctx context.Context, sourceSet string) ([]*Descriptor, error) {
	return f(ctx, sourceSet)
}

// Static returns a Discoverer that yields a fixed descriptor list,
// ignoring the source set. This is the explicit-registration strategy.
func Static(descs ...*Descriptor) Discoverer {
	fixed := append([]*Descriptor(nil), descs...)
	return DiscoverFunc(func(context.Context, string) ([]*Descriptor, error) {
		return fixed, nil
	})
}

// Source pairs a discoverer with the source set it should enumerate.
type Source struct {
	Discoverer Discoverer
	SourceSet  string
}

// Populate registers every capability provided by every descriptor.
func Populate(reg *Registry, descs ...*Descriptor) error {
	if reg == nil {
		return fmt.Errorf("populate: %w", ErrNilRegistry)
	}
	for _, desc := range descs {
		if desc == nil {
			return fmt.Errorf("populate: %w", ErrNilDescriptor)
		}
		for _, provided := range desc.provides {
			if err := reg.Register(provided, desc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Scan runs all discoverers concurrently, then registers their results
// in source order once every discovery has completed. Registration
// therefore never interleaves with discovery, and initialization can
// start as soon as Scan returns.
func Scan(ctx context.Context, reg *Registry, sources ...Source) error {
	if reg == nil {
		return fmt.Errorf("scan: %w", ErrNilRegistry)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([][]*Descriptor, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if src.Discoverer == nil {
				return fmt.Errorf("scan source %q: discoverer is nil", src.SourceSet)
			}
			descs, err := src.Discoverer.Discover(ctx, src.SourceSet)
			if err != nil {
				return fmt.Errorf("discover source %q: %w", src.SourceSet, err)
			}
			results[i] = descs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, descs := range results {
		if err := Populate(reg, descs...); err != nil {
			return err
		}
	}
	return nil
}
