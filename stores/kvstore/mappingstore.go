package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gridforge/gridstore/interfaces"
)

// indexMappingStore persists the index-name set per adapter as a JSON array
// keyed by adapter ID.
type indexMappingStore struct {
	kv KV
}

func newIndexMappingStore(kv KV) interfaces.IndexMappingStore {
	return &indexMappingStore{kv: kv}
}

func (s *indexMappingStore) AddMapping(ctx context.Context, id interfaces.AdapterID, indexNames []string) error {
	raw, err := json.Marshal(indexNames)
	if err != nil {
		return fmt.Errorf("encoding index mapping for adapter %s: %w", id, err)
	}
	return s.kv.Put(ctx, NamespaceIndexMapping, id.String(), raw)
}

func (s *indexMappingStore) IndicesForAdapter(ctx context.Context, id interfaces.AdapterID) ([]string, error) {
	raw, err := s.kv.Get(ctx, NamespaceIndexMapping, id.String())
	if errors.Is(err, interfaces.ErrEntryNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("decoding index mapping for adapter %s: %w", id, err)
	}
	return names, nil
}

func (s *indexMappingStore) RemoveMapping(ctx context.Context, id interfaces.AdapterID) error {
	return s.kv.Delete(ctx, NamespaceIndexMapping, id.String())
}
