package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gridforge/gridstore/interfaces"
)

// adapterStore persists adapter metadata as JSON records keyed by internal
// adapter ID.
type adapterStore struct {
	kv KV
}

func newAdapterStore(kv KV) interfaces.AdapterStore {
	return &adapterStore{kv: kv}
}

func (s *adapterStore) AddAdapter(ctx context.Context, adapter interfaces.Adapter) error {
	if err := adapter.Validate(); err != nil {
		return fmt.Errorf("invalid adapter: %w", err)
	}
	raw, err := json.Marshal(adapter)
	if err != nil {
		return fmt.Errorf("encoding adapter %q: %w", adapter.Name, err)
	}
	return s.kv.Put(ctx, NamespaceAdapter, adapter.ID.String(), raw)
}

func (s *adapterStore) GetAdapter(ctx context.Context, id interfaces.AdapterID) (interfaces.Adapter, error) {
	raw, err := s.kv.Get(ctx, NamespaceAdapter, id.String())
	if err != nil {
		return interfaces.Adapter{}, err
	}
	var adapter interfaces.Adapter
	if err := json.Unmarshal(raw, &adapter); err != nil {
		return interfaces.Adapter{}, fmt.Errorf("decoding adapter %s: %w", id, err)
	}
	return adapter, nil
}

func (s *adapterStore) RemoveAdapter(ctx context.Context, id interfaces.AdapterID) error {
	return s.kv.Delete(ctx, NamespaceAdapter, id.String())
}

func (s *adapterStore) Adapters(ctx context.Context) ([]interfaces.Adapter, error) {
	keys, err := s.kv.List(ctx, NamespaceAdapter)
	if err != nil {
		return nil, err
	}
	adapters := make([]interfaces.Adapter, 0, len(keys))
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, NamespaceAdapter, key)
		if err != nil {
			return nil, err
		}
		var adapter interfaces.Adapter
		if err := json.Unmarshal(raw, &adapter); err != nil {
			return nil, fmt.Errorf("decoding adapter %s: %w", key, err)
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
