package server

import (
	"sort"
	"sync"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// Sentinel errors for registry operations.
var (
	// ErrAlreadyRegistered is returned when a server type name is already in use.
	ErrAlreadyRegistered = errors.New("server type already registered")

	// ErrUnknownType is returned when looking up a type that was never registered.
	ErrUnknownType = errors.New("unknown server type")
)

// Source supplies server descriptors to a registry.
type Source interface {
	Descriptors() ([]*Descriptor, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func() ([]*Descriptor, error)

// Descriptors calls f.
func (f SourceFunc) Descriptors() ([]*Descriptor, error) {
	return f()
}

// Registry maps server type names to descriptors.
// It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]*Descriptor
}

// NewRegistry creates a registry populated from sources, in order.
// A type name provided by two sources is an error.
func NewRegistry(sources ...Source) (*Registry, error) {
	r := &Registry{descriptors: make(map[string]*Descriptor)}
	for _, src := range sources {
		if src == nil {
			continue
		}
		descs, err := src.Descriptors()
		if err != nil {
			return nil, errors.Wrap(err, "loading server descriptors")
		}
		for _, d := range descs {
			if err := r.Register(d); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// Register validates d and adds a private copy of it to the registry.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	c := d.clone()
	for i, p := range c.Params {
		if p.Default != nil {
			v, err := p.coerce(p.Default)
			if err != nil {
				return errors.Wrapf(err, "server type %q parameter %q default", c.TypeName, p.Name)
			}
			c.Params[i].Default = v
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[c.TypeName]; exists {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", c.TypeName)
	}
	r.descriptors[c.TypeName] = c
	return nil
}

// Get returns the descriptor for typeName. Unknown names yield an error
// wrapping ErrUnknownType and marked errors.ErrInvalidArgument.
func (r *Registry) Get(typeName string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.descriptors[typeName]
	if !ok {
		return nil, errors.Mark(errors.Wrapf(ErrUnknownType, "%q", typeName), errors.ErrInvalidArgument)
	}
	return d, nil
}

// Names returns registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.descriptors))
	for name := range r.descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every descriptor sorted by type name.
func (r *Registry) All() []*Descriptor {
	names := r.Names()

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Descriptor, 0, len(names))
	for _, name := range names {
		if d, ok := r.descriptors[name]; ok {
			all = append(all, d)
		}
	}
	return all
}
