package cipher

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a container for all available schemes
type Registry struct {
	schemes map[string]Scheme
	mu      sync.RWMutex
}

// NewRegistry creates a new scheme registry
func NewRegistry() *Registry {
	return &Registry{
		schemes: make(map[string]Scheme),
	}
}

// DefaultRegistry returns a registry holding the three built-in schemes
// configured with p.
func DefaultRegistry(p Pipeline) *Registry {
	r := NewRegistry()
	r.Register(NewFullScheme(p))
	r.Register(NewConfusionScheme(p))
	r.Register(NewDiffusionScheme(p))
	return r
}

// Register adds a scheme to the registry, replacing one with the same name
func (r *Registry) Register(s Scheme) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemes[s.Name()] = s
}

// Get finds the scheme with the given name
func (r *Registry) Get(name string) (Scheme, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheme %q", name)
	}
	return s, nil
}

// Names returns the sorted names of all registered schemes
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemes))
	for name := range r.schemes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
