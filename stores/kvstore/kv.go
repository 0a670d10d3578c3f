// Package kvstore adapts namespaced key/value backends into the six store
// kinds of the gridstore configuration subsystem.
//
// A backend only needs to implement the small KV interface; the package
// provides the store-kind implementations over it (records are JSON encoded)
// and a generic Family that turns a KV opener into a complete
// interfaces.StoreFamily. Each namespace corresponds to one store kind, so a
// single backend connection serves every kind of a configuration.
package kvstore

import (
	"context"
)

// Namespace partitions a KV backend by store kind. Backends map namespaces
// to whatever isolation primitive they have (directories, buckets, key
// prefixes, mount paths).
type Namespace string

const (
	// NamespaceData holds data store rows, sub-partitioned by index name.
	NamespaceData Namespace = "data"

	// NamespaceIndex holds index definitions.
	NamespaceIndex Namespace = "index"

	// NamespaceAdapter holds persistent adapter metadata.
	NamespaceAdapter Namespace = "adapter"

	// NamespaceInternalAdapter holds the adapter name/ID mapping.
	NamespaceInternalAdapter Namespace = "internal_adapter"

	// NamespaceStatistics holds per-adapter statistics.
	NamespaceStatistics Namespace = "statistics"

	// NamespaceIndexMapping holds adapter to index-name associations.
	NamespaceIndexMapping Namespace = "index_mapping"
)

// Namespaces lists every namespace a backend must be able to serve.
func Namespaces() []Namespace {
	return []Namespace{
		NamespaceData,
		NamespaceIndex,
		NamespaceAdapter,
		NamespaceInternalAdapter,
		NamespaceStatistics,
		NamespaceIndexMapping,
	}
}

// KV is the minimal keyed storage contract a backend implements. Get must
// return interfaces.ErrEntryNotFound for missing keys; Delete of a missing
// key is not an error. Implementations must be safe for concurrent use.
type KV interface {
	// Put writes a value under a namespace and key.
	Put(ctx context.Context, ns Namespace, key string, value []byte) error

	// Get reads a value. Returns interfaces.ErrEntryNotFound if absent.
	Get(ctx context.Context, ns Namespace, key string) ([]byte, error)

	// Delete removes a key. Missing keys are ignored.
	Delete(ctx context.Context, ns Namespace, key string) error

	// List returns all keys in a namespace.
	List(ctx context.Context, ns Namespace) ([]string, error)

	// Close releases the backend connection.
	Close() error
}
