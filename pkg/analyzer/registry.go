package analyzer

import (
	"sort"
	"sync"
)

// Registry is a container for all available analyzers
type Registry struct {
	analyzers map[string][]ImageAnalyzer
	mu        sync.RWMutex
}

// NewRegistry creates a new analyzer registry
func NewRegistry() *Registry {
	return &Registry{
		analyzers: make(map[string][]ImageAnalyzer),
	}
}

// Register adds an analyzer to the registry
func (r *Registry) Register(analyzer ImageAnalyzer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, mode := range analyzer.SupportedModes() {
		r.analyzers[mode] = append(r.analyzers[mode], analyzer)
	}
}

// GetAnalyzersForMode returns all analyzers that support the given color mode
func (r *Registry) GetAnalyzersForMode(mode string) []ImageAnalyzer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.analyzers[mode]
}

// GetSupportedModes returns a sorted list of all supported color modes
func (r *Registry) GetSupportedModes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var modes []string
	for mode := range r.analyzers {
		modes = append(modes, mode)
	}
	sort.Strings(modes)

	return modes
}
