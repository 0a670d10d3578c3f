// Package memorystore provides an in-process store family backed by plain
// maps. It recognizes the "memory.id" parameter; equal mappings share one
// backing store, which makes the family convenient for tests and local
// development.
package memorystore

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
	"github.com/gridforge/gridstore/storefamily"
)

// ParamID is the identifying parameter of the memory family.
const ParamID = "memory.id"

// Family is the registered memory store family.
var Family = kvstore.NewFamily("memory", ParamID, open)

func init() {
	storefamily.Register(Family)
}

func open(ctx context.Context, params map[string]string, log *slog.Logger) (kvstore.KV, error) {
	return &memoryKV{data: make(map[kvstore.Namespace]map[string][]byte)}, nil
}

type memoryKV struct {
	mu   sync.RWMutex
	data map[kvstore.Namespace]map[string][]byte
}

func (m *memoryKV) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[ns] == nil {
		m.data[ns] = make(map[string][]byte)
	}
	m.data[ns][key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryKV) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[ns][key]
	if !ok {
		return nil, interfaces.ErrEntryNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *memoryKV) Delete(ctx context.Context, ns kvstore.Namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[ns], key)
	return nil
}

func (m *memoryKV) List(ctx context.Context, ns kvstore.Namespace) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data[ns]))
	for key := range m.data[ns] {
		keys = append(keys, key)
	}
	return keys, nil
}

func (m *memoryKV) Close() error {
	return nil
}
