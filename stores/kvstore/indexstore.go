package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gridforge/gridstore/interfaces"
)

// indexStore persists index definitions as JSON records keyed by index name.
type indexStore struct {
	kv KV
}

func newIndexStore(kv KV) interfaces.IndexStore {
	return &indexStore{kv: kv}
}

func (s *indexStore) AddIndex(ctx context.Context, index interfaces.Index) error {
	if err := index.Validate(); err != nil {
		return fmt.Errorf("invalid index: %w", err)
	}
	raw, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encoding index %q: %w", index.Name, err)
	}
	return s.kv.Put(ctx, NamespaceIndex, index.Name, raw)
}

func (s *indexStore) GetIndex(ctx context.Context, name string) (interfaces.Index, error) {
	raw, err := s.kv.Get(ctx, NamespaceIndex, name)
	if err != nil {
		return interfaces.Index{}, err
	}
	var index interfaces.Index
	if err := json.Unmarshal(raw, &index); err != nil {
		return interfaces.Index{}, fmt.Errorf("decoding index %q: %w", name, err)
	}
	return index, nil
}

func (s *indexStore) RemoveIndex(ctx context.Context, name string) error {
	return s.kv.Delete(ctx, NamespaceIndex, name)
}

func (s *indexStore) Indexes(ctx context.Context) ([]interfaces.Index, error) {
	names, err := s.kv.List(ctx, NamespaceIndex)
	if err != nil {
		return nil, err
	}
	indexes := make([]interfaces.Index, 0, len(names))
	for _, name := range names {
		index, err := s.GetIndex(ctx, name)
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, index)
	}
	return indexes, nil
}
