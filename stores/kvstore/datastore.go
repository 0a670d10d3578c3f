package kvstore

import (
	"context"
	"net/url"

	"github.com/gridforge/gridstore/interfaces"
)

// dataStore provides keyed row storage over a KV backend. Rows live in the
// data namespace under "<index>/<rowKey>"; both components are escaped so a
// separator inside either cannot collide with another row.
type dataStore struct {
	kv KV
}

func newDataStore(kv KV) interfaces.DataStore {
	return &dataStore{kv: kv}
}

func (s *dataStore) PutRow(ctx context.Context, indexName, rowKey string, value []byte) error {
	return s.kv.Put(ctx, NamespaceData, rowKeyPath(indexName, rowKey), value)
}

func (s *dataStore) GetRow(ctx context.Context, indexName, rowKey string) ([]byte, error) {
	return s.kv.Get(ctx, NamespaceData, rowKeyPath(indexName, rowKey))
}

func (s *dataStore) DeleteRow(ctx context.Context, indexName, rowKey string) error {
	return s.kv.Delete(ctx, NamespaceData, rowKeyPath(indexName, rowKey))
}

func rowKeyPath(indexName, rowKey string) string {
	return url.PathEscape(indexName) + "/" + url.PathEscape(rowKey)
}
