// Package storeconfig resolves raw backend descriptors into cached
// configurations and manages the lazily constructed store handles derived
// from them.
//
// A descriptor - a flat parameter string or a locator of a small XML
// document - is resolved at most once per process: the five reserved
// override keys are extracted, the remaining backend-specific parameters
// are claimed by a registered store family, an authorization strategy is
// selected by name, and the result is memoized under the verbatim
// descriptor string. Equal descriptors always yield the identical Config
// instance. Failed resolutions are never memoized; every call retries from
// scratch until one succeeds.
package storeconfig

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gridforge/gridstore/auth"
	"github.com/gridforge/gridstore/params"
	"github.com/gridforge/gridstore/storefamily"
)

// Cache is a process-lifetime, thread-safe mapping from raw descriptor to
// resolved Config. Entries are never evicted.
type Cache struct {
	log      *slog.Logger
	families *storefamily.Registry
	auth     *auth.Registry
	client   *http.Client

	mu      sync.RWMutex
	configs map[string]*Config
}

// CacheOption customizes a Cache at construction time.
type CacheOption func(*Cache)

// WithFamilyRegistry uses a specific family registry instead of the
// process-wide one. Intended for tests.
func WithFamilyRegistry(reg *storefamily.Registry) CacheOption {
	return func(c *Cache) { c.families = reg }
}

// WithAuthRegistry uses a specific authorization registry instead of the
// process-wide one. Intended for tests.
func WithAuthRegistry(reg *auth.Registry) CacheOption {
	return func(c *Cache) { c.auth = reg }
}

// WithHTTPClient uses a specific HTTP client for fetching descriptor
// documents.
func WithHTTPClient(client *http.Client) CacheOption {
	return func(c *Cache) { c.client = client }
}

// NewCache creates a configuration cache backed by the process-wide family
// and authorization registries.
func NewCache(log *slog.Logger, opts ...CacheOption) *Cache {
	c := &Cache{
		log:      log,
		families: storefamily.Default(),
		auth:     auth.Default(),
		client:   http.DefaultClient,
		configs:  make(map[string]*Config),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the configuration for a flat parameter-string descriptor,
// resolving it on first use. Equal descriptors return the identical Config
// instance for the life of the process.
func (c *Cache) Resolve(ctx context.Context, descriptor string) (*Config, error) {
	if cfg := c.lookup(descriptor); cfg != nil {
		return cfg, nil
	}

	parsed, err := params.Parse(descriptor)
	if err != nil {
		return nil, err
	}
	return c.resolveParams(descriptor, parsed)
}

// ResolveDocument returns the configuration for a document locator,
// fetching and parsing the document on first use. The locator string is the
// cache key.
func (c *Cache) ResolveDocument(ctx context.Context, locator string) (*Config, error) {
	if cfg := c.lookup(locator); cfg != nil {
		return cfg, nil
	}

	parsed, err := params.FetchDocument(ctx, c.client, locator)
	if err != nil {
		return nil, err
	}
	return c.resolveParams(locator, parsed)
}

// resolveParams runs override extraction, family selection and
// authorization selection, then publishes the new Config. Under a
// concurrent first-access race both callers resolve, but only the first
// insert wins and both observe the winning instance; the loser's Config is
// discarded before any store handle exists, so nothing leaks.
func (c *Cache) resolveParams(descriptor string, parsed map[string]string) (*Config, error) {
	overrides, storeParams, err := ExtractOverrides(parsed)
	if err != nil {
		return nil, err
	}

	family, err := c.families.Find(storeParams)
	if err != nil {
		return nil, err
	}

	authFactory := c.auth.Resolve(overrides.AuthorizationProviderName())
	authURL := auth.ParseAuthorizationURL(overrides.authURLRaw, c.log)

	cfg := newConfig(descriptor, storeParams, family, overrides, authFactory, authURL, c.log)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.configs[descriptor]; ok {
		return existing, nil
	}
	c.configs[descriptor] = cfg

	c.log.Debug("Resolved store configuration",
		slog.String("family", family.Name()),
		slog.String("authProvider", authFactory.Name()),
		slog.Int("cachedConfigs", len(c.configs)))
	return cfg, nil
}

// Get returns the already-resolved configuration for a descriptor without
// triggering resolution.
func (c *Cache) Get(descriptor string) (*Config, bool) {
	cfg := c.lookup(descriptor)
	return cfg, cfg != nil
}

func (c *Cache) lookup(descriptor string) *Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.configs[descriptor]
}

// Len returns the number of resolved configurations.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.configs)
}

// Descriptors lists the raw descriptors of all resolved configurations,
// sorted for stable display.
func (c *Cache) Descriptors() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.configs))
	for descriptor := range c.configs {
		out = append(out, descriptor)
	}
	sort.Strings(out)
	return out
}

// Reset drops every cached configuration. Intended for tests; production
// code never evicts.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.configs = make(map[string]*Config)
}

// defaultCache backs the package-level functions. Created at first use of
// the package, never torn down.
var (
	defaultCache     *Cache
	defaultCacheOnce sync.Once
)

// DefaultCache returns the process-wide configuration cache.
func DefaultCache() *Cache {
	defaultCacheOnce.Do(func() {
		defaultCache = NewCache(slog.Default())
	})
	return defaultCache
}

// Resolve resolves a flat descriptor against the process-wide cache.
func Resolve(ctx context.Context, descriptor string) (*Config, error) {
	return DefaultCache().Resolve(ctx, descriptor)
}

// ResolveDocument resolves a document locator against the process-wide
// cache.
func ResolveDocument(ctx context.Context, locator string) (*Config, error) {
	return DefaultCache().ResolveDocument(ctx, locator)
}
