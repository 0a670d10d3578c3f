package kvstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/gridforge/gridstore/interfaces"
)

// Opener creates the KV backend for a parameter mapping. It is called at
// most once per distinct mapping per family; the resulting connection is
// shared by every store kind built from that mapping.
type Opener func(ctx context.Context, params map[string]string, log *slog.Logger) (KV, error)

// Family is a generic interfaces.StoreFamily over a KV backend. It
// recognizes mappings containing its identifying parameter and serves all
// six store kinds from one cached backend connection per distinct mapping.
type Family struct {
	name     string
	keyParam string
	open     Opener

	mu    sync.Mutex
	conns map[string]KV
}

// NewFamily creates a family that recognizes mappings containing keyParam
// and opens backends with open.
func NewFamily(name, keyParam string, open Opener) *Family {
	return &Family{
		name:     name,
		keyParam: keyParam,
		open:     open,
		conns:    make(map[string]KV),
	}
}

// Name returns the family identifier.
func (f *Family) Name() string { return f.name }

// KeyParam returns the identifying parameter the family recognizes.
func (f *Family) KeyParam() string { return f.keyParam }

// Recognizes reports whether the mapping carries the identifying parameter.
func (f *Family) Recognizes(params map[string]string) bool {
	_, ok := params[f.keyParam]
	return ok
}

// NewDataStore constructs the data store for the mapping.
func (f *Family) NewDataStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.DataStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newDataStore(kv), nil
}

// NewIndexStore constructs the index store for the mapping.
func (f *Family) NewIndexStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newIndexStore(kv), nil
}

// NewAdapterStore constructs the persistent adapter store for the mapping.
func (f *Family) NewAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.AdapterStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newAdapterStore(kv), nil
}

// NewInternalAdapterStore constructs the internal adapter ID store for the
// mapping.
func (f *Family) NewInternalAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.InternalAdapterStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newInternalAdapterStore(kv), nil
}

// NewStatisticsStore constructs the data statistics store for the mapping.
func (f *Family) NewStatisticsStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.StatisticsStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newStatisticsStore(kv), nil
}

// NewIndexMappingStore constructs the adapter-index-mapping store for the
// mapping.
func (f *Family) NewIndexMappingStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexMappingStore, error) {
	kv, err := f.connect(ctx, params, log)
	if err != nil {
		return nil, err
	}
	return newIndexMappingStore(kv), nil
}

// connect returns the cached backend connection for the mapping, opening it
// on first use. Connections are keyed by the canonical form of the mapping
// so every store kind of one configuration shares a single connection, and
// failed opens are not cached.
func (f *Family) connect(ctx context.Context, params map[string]string, log *slog.Logger) (KV, error) {
	key := canonicalParams(params)

	f.mu.Lock()
	defer f.mu.Unlock()

	if kv, ok := f.conns[key]; ok {
		return kv, nil
	}

	kv, err := f.open(ctx, params, log)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", f.name, err)
	}
	f.conns[key] = kv

	log.Debug("Opened store backend",
		slog.String("family", f.name),
		slog.String("params", key))
	return kv, nil
}

// CloseAll closes every cached backend connection. Intended for tests and
// controlled shutdown; the subsystem itself holds connections for the
// process lifetime.
func (f *Family) CloseAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var firstErr error
	for key, kv := range f.conns {
		if err := kv.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(f.conns, key)
	}
	return firstErr
}

// canonicalParams renders a mapping in sorted key=value form so equal
// mappings always produce the same cache key.
func canonicalParams(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(params[key])
	}
	return b.String()
}
