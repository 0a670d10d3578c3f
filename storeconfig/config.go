package storeconfig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gridforge/gridstore/interfaces"
)

// ErrStoreConstruction is returned when the selected backend family fails
// to construct a store handle. The failure is scoped to that one store
// kind and that one call; the next access retries construction.
var ErrStoreConstruction = errors.New("store construction failed")

// Config is a resolved backend configuration: the backend-specific
// parameter mapping, the store family that claimed it, the extracted
// override settings, and the authorization selection. Store handles are
// constructed lazily, at most one live handle per kind per Config.
//
// Configs are created by a Cache, one per distinct raw descriptor, and live
// for the rest of the process. The parameter mapping and family are
// immutable after construction; only the lazy handle cells change state,
// monotonically and guarded per kind.
type Config struct {
	descriptor  string
	storeParams map[string]string
	family      interfaces.StoreFamily
	overrides   Overrides
	authFactory interfaces.AuthorizationFactory
	authURL     *url.URL
	log         *slog.Logger

	dataStore         lazyHandle[interfaces.DataStore]
	indexStore        lazyHandle[interfaces.IndexStore]
	adapterStore      lazyHandle[interfaces.AdapterStore]
	internalAdapters  lazyHandle[interfaces.InternalAdapterStore]
	statisticsStore   lazyHandle[interfaces.StatisticsStore]
	indexMappingStore lazyHandle[interfaces.IndexMappingStore]
}

func newConfig(descriptor string, storeParams map[string]string, family interfaces.StoreFamily, overrides Overrides, authFactory interfaces.AuthorizationFactory, authURL *url.URL, log *slog.Logger) *Config {
	return &Config{
		descriptor:  descriptor,
		storeParams: storeParams,
		family:      family,
		overrides:   overrides,
		authFactory: authFactory,
		authURL:     authURL,
		log:         log,
	}
}

// Descriptor returns the raw descriptor this configuration was resolved
// from.
func (c *Config) Descriptor() string {
	return c.descriptor
}

// Family returns the store family that claimed the backend parameters.
func (c *Config) Family() interfaces.StoreFamily {
	return c.family
}

// StoreParams returns a copy of the backend-specific parameter mapping.
func (c *Config) StoreParams() map[string]string {
	out := make(map[string]string, len(c.storeParams))
	for key, value := range c.storeParams {
		out[key] = value
	}
	return out
}

// Overrides returns the override settings extracted from the descriptor.
func (c *Config) Overrides() Overrides {
	return c.overrides
}

// DataStore returns the data store handle, constructing it on first call.
func (c *Config) DataStore(ctx context.Context) (interfaces.DataStore, error) {
	return c.dataStore.get(func() (interfaces.DataStore, error) {
		store, err := c.family.NewDataStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: data store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// IndexStore returns the index store handle, constructing it on first call.
func (c *Config) IndexStore(ctx context.Context) (interfaces.IndexStore, error) {
	return c.indexStore.get(func() (interfaces.IndexStore, error) {
		store, err := c.family.NewIndexStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: index store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// AdapterStore returns the persistent adapter store handle, constructing it
// on first call.
func (c *Config) AdapterStore(ctx context.Context) (interfaces.AdapterStore, error) {
	return c.adapterStore.get(func() (interfaces.AdapterStore, error) {
		store, err := c.family.NewAdapterStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: adapter store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// InternalAdapterStore returns the internal adapter ID store handle,
// constructing it on first call.
func (c *Config) InternalAdapterStore(ctx context.Context) (interfaces.InternalAdapterStore, error) {
	return c.internalAdapters.get(func() (interfaces.InternalAdapterStore, error) {
		store, err := c.family.NewInternalAdapterStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: internal adapter store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// StatisticsStore returns the data statistics store handle, constructing it
// on first call.
func (c *Config) StatisticsStore(ctx context.Context) (interfaces.StatisticsStore, error) {
	return c.statisticsStore.get(func() (interfaces.StatisticsStore, error) {
		store, err := c.family.NewStatisticsStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: statistics store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// IndexMappingStore returns the adapter-index-mapping store handle,
// constructing it on first call.
func (c *Config) IndexMappingStore(ctx context.Context) (interfaces.IndexMappingStore, error) {
	return c.indexMappingStore.get(func() (interfaces.IndexMappingStore, error) {
		store, err := c.family.NewIndexMappingStore(ctx, c.storeParams, c.log)
		if err != nil {
			return nil, fmt.Errorf("%w: index mapping store: %v", ErrStoreConstruction, err)
		}
		return store, nil
	})
}

// IsInterpolationOverrideSet reports whether the interpolation override is
// present.
func (c *Config) IsInterpolationOverrideSet() bool {
	return c.overrides.IsInterpolationOverrideSet()
}

// InterpolationOverride returns the interpolation code override. Fails with
// ErrOverrideNotSet when absent; check IsInterpolationOverrideSet first.
func (c *Config) InterpolationOverride() (int, error) {
	return c.overrides.InterpolationOverride()
}

// IsScaleTo8BitSet reports whether the scale-to-8-bit override is present.
func (c *Config) IsScaleTo8BitSet() bool {
	return c.overrides.IsScaleTo8BitSet()
}

// ScaleTo8Bit returns the scale-to-8-bit override. Fails with
// ErrOverrideNotSet when absent; check IsScaleTo8BitSet first.
func (c *Config) ScaleTo8Bit() (bool, error) {
	return c.overrides.ScaleTo8Bit()
}

// IsEqualizeHistogramOverrideSet reports whether the equalize-histogram
// override is present.
func (c *Config) IsEqualizeHistogramOverrideSet() bool {
	return c.overrides.IsEqualizeHistogramOverrideSet()
}

// EqualizeHistogramOverride returns the equalize-histogram override. Fails
// with ErrOverrideNotSet when absent; check IsEqualizeHistogramOverrideSet
// first.
func (c *Config) EqualizeHistogramOverride() (bool, error) {
	return c.overrides.EqualizeHistogramOverride()
}

// AuthorizationFactory returns the selected authorization strategy. Always
// non-nil; the no-op strategy stands in when nothing matched.
func (c *Config) AuthorizationFactory() interfaces.AuthorizationFactory {
	return c.authFactory
}

// AuthorizationURL returns the validated authorization endpoint URL, nil
// when none was configured or the configured value was malformed.
func (c *Config) AuthorizationURL() *url.URL {
	return c.authURL
}

// NewAuthorizationProvider builds a provider from the selected strategy and
// endpoint URL.
func (c *Config) NewAuthorizationProvider() interfaces.AuthorizationProvider {
	return c.authFactory.Create(c.authURL)
}
