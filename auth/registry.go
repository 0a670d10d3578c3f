// Package auth maintains the pluggable registry of authorization strategies
// used by resolved store configurations.
//
// Factories are selected by exact name match against the registered list.
// Authorization is an optional enhancement of configuration resolution, not
// a correctness requirement: an unknown provider name falls back to the
// no-op strategy and a malformed authorization endpoint URL is logged and
// treated as absent. Neither condition fails resolution.
package auth

import (
	"log/slog"
	"net/url"
	"sync"

	"github.com/gridforge/gridstore/interfaces"
)

// Registry holds an ordered set of authorization factories.
type Registry struct {
	mu        sync.RWMutex
	factories []interfaces.AuthorizationFactory
}

// NewRegistry creates an empty authorization registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a factory to the registry.
func (r *Registry) Register(factory interfaces.AuthorizationFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = append(r.factories, factory)
}

// Resolve returns the first registered factory whose name equals the given
// provider name. An empty name or a name matching no factory yields the
// no-op factory; Resolve never fails.
func (r *Registry) Resolve(name string) interfaces.AuthorizationFactory {
	if name == "" {
		return EmptyFactory{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, factory := range r.factories {
		if factory.Name() == name {
			return factory
		}
	}
	return EmptyFactory{}
}

// Names lists the registered factory names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for _, factory := range r.factories {
		names = append(names, factory.Name())
	}
	return names
}

// Reset clears a registry. Intended for tests that need a controlled
// factory set.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories = nil
}

// defaultRegistry is the process-wide registry used by the package-level
// functions, pre-populated with the built-in strategies.
var defaultRegistry = NewRegistry()

func init() {
	defaultRegistry.Register(BasicFactory{})
	defaultRegistry.Register(JSONFileFactory{})
}

// Register adds a factory to the process-wide registry.
func Register(factory interfaces.AuthorizationFactory) {
	defaultRegistry.Register(factory)
}

// Resolve selects a factory from the process-wide registry.
func Resolve(name string) interfaces.AuthorizationFactory {
	return defaultRegistry.Resolve(name)
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// ParseAuthorizationURL validates an authorization endpoint URL. A malformed
// or scheme-less URL is logged and treated as absent; configuration
// resolution never fails on it.
func ParseAuthorizationURL(raw string, log *slog.Logger) *url.URL {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		log.Warn("Malformed authorization service URL, ignoring",
			slog.String("url", raw))
		return nil
	}
	return u
}
