package manifest

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/capwire/capwire"
)

// UnknownComponentError means the manifest names a component that has no
// factory in the catalog.
type UnknownComponentError struct {
	Name string
}

func (e UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown component %q in manifest", e.Name)
}

// DuplicateComponentError means a second factory was added under an
// already-taken component name.
type DuplicateComponentError struct {
	Name string
}

func (e DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q already has a factory", e.Name)
}

// Catalog maps component names to compiled descriptors. A name holds
// exactly one descriptor: components have a single constructor, and a
// discovery source offering a second candidate is a configuration error.
type Catalog struct {
	byName map[string]*capwire.Descriptor
}

func NewCatalog() *Catalog {
	return &Catalog{byName: make(map[string]*capwire.Descriptor)}
}

// Add registers a descriptor under a component name.
func (c *Catalog) Add(name string, desc *capwire.Descriptor) error {
	if name == "" {
		return fmt.Errorf("catalog add: component name is empty")
	}
	if desc == nil {
		return fmt.Errorf("catalog add %q: %w", name, capwire.ErrNilDescriptor)
	}
	if _, exists := c.byName[name]; exists {
		return DuplicateComponentError{Name: name}
	}
	c.byName[name] = desc
	return nil
}

// MustAdd panics on an add error; intended for bootstrap code paths.
func (c *Catalog) MustAdd(name string, desc *capwire.Descriptor) {
	if err := c.Add(name, desc); err != nil {
		panic(err)
	}
}

// File is the YAML manifest layout.
type File struct {
	Components []Entry `yaml:"components"`
}

// Entry enables one catalog component by name.
type Entry struct {
	Name     string `yaml:"name"`
	Disabled bool   `yaml:"disabled,omitempty"`
}

// Discoverer resolves a YAML manifest against a catalog. The source set
// passed to Discover is the manifest file path.
type Discoverer struct {
	catalog *Catalog
}

func NewDiscoverer(catalog *Catalog) (*Discoverer, error) {
	if catalog == nil {
		return nil, fmt.Errorf("new manifest discoverer: catalog is nil")
	}
	return &Discoverer{catalog: catalog}, nil
}

// Discover implements capwire.Discoverer.
func (d *Discoverer) Discover(ctx context.Context, sourceSet string) ([]*capwire.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(sourceSet)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", sourceSet, err)
	}
	return d.parse(payload, sourceSet)
}

func (d *Discoverer) parse(payload []byte, sourceSet string) ([]*capwire.Descriptor, error) {
	var file File
	if err := yaml.Unmarshal(payload, &file); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", sourceSet, err)
	}

	descs := make([]*capwire.Descriptor, 0, len(file.Components))
	for _, entry := range file.Components {
		if entry.Name == "" {
			return nil, fmt.Errorf("manifest %s: component name is empty", sourceSet)
		}
		if entry.Disabled {
			continue
		}
		desc, ok := d.catalog.byName[entry.Name]
		if !ok {
			return nil, UnknownComponentError{Name: entry.Name}
		}
		descs = append(descs, desc)
	}
	return descs, nil
}
