// Package storefamily maintains the process-wide registry of storage backend
// factory families and selects the family servicing a backend parameter
// mapping.
//
// Families are registered statically at process start, normally from the
// init functions of the backend packages (blank-import the stores/all
// package to get every built-in family). The registered set is read-only
// after startup; selection probes each family in registration order and the
// first family that recognizes the mapping wins. When identifying parameters
// overlap between installed families the outcome is registration-order
// dependent; installations are expected to keep identifying parameters
// mutually exclusive.
package storefamily

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/gridforge/gridstore/interfaces"
)

// ErrNoMatchingBackend is returned when no registered family recognizes a
// backend parameter mapping.
var ErrNoMatchingBackend = errors.New("no registered backend family matches the parameters")

// Registry holds an ordered set of store families.
type Registry struct {
	mu       sync.RWMutex
	families []interfaces.StoreFamily
}

// NewRegistry creates an empty family registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a family to the registry. Registering the same family
// name twice panics; a process that does so is misconfigured.
func (r *Registry) Register(family interfaces.StoreFamily) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.families {
		if existing.Name() == family.Name() {
			panic(fmt.Sprintf("storefamily: family %q registered twice", family.Name()))
		}
	}
	r.families = append(r.families, family)
}

// Find returns the first registered family that recognizes the parameter
// mapping, in registration order. Returns ErrNoMatchingBackend when no
// family claims it.
func (r *Registry) Find(params map[string]string) (interfaces.StoreFamily, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, family := range r.families {
		if family.Recognizes(params) {
			return family, nil
		}
	}
	return nil, fmt.Errorf("%w: known families %v", ErrNoMatchingBackend, r.names())
}

// Names lists the registered family names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names()
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.families))
	for _, family := range r.families {
		names = append(names, family.Name())
	}
	return names
}

// defaultRegistry is the process-wide registry used by the package-level
// functions. It is populated during init and stable afterwards.
var defaultRegistry = NewRegistry()

// Register adds a family to the process-wide registry.
func Register(family interfaces.StoreFamily) {
	defaultRegistry.Register(family)
}

// Find selects a family from the process-wide registry.
func Find(params map[string]string) (interfaces.StoreFamily, error) {
	return defaultRegistry.Find(params)
}

// Names lists the families in the process-wide registry, sorted for display.
func Names() []string {
	names := defaultRegistry.Names()
	sort.Strings(names)
	return names
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Reset clears a registry. Intended for tests that need a controlled family
// set.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.families = nil
}
