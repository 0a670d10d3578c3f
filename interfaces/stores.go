package interfaces

import (
	"context"
	"errors"
)

var (
	// ErrEntryNotFound is returned when a requested record does not exist in
	// the backing store.
	ErrEntryNotFound = errors.New("store entry not found")

	// ErrStoreUnavailable is returned when a storage backend is not
	// accessible. This could be due to network issues, authentication
	// failures, or service outages.
	ErrStoreUnavailable = errors.New("storage backend unavailable")
)

// DataStore provides keyed row storage partitioned by index name.
type DataStore interface {
	// PutRow writes a row under the given index.
	PutRow(ctx context.Context, indexName, rowKey string, value []byte) error

	// GetRow reads a row previously written under the given index.
	// Returns ErrEntryNotFound if the row does not exist.
	GetRow(ctx context.Context, indexName, rowKey string) ([]byte, error)

	// DeleteRow removes a row. Deleting a missing row is not an error.
	DeleteRow(ctx context.Context, indexName, rowKey string) error
}

// IndexStore persists index definitions.
type IndexStore interface {
	// AddIndex persists an index definition, replacing any existing
	// definition with the same name.
	AddIndex(ctx context.Context, index Index) error

	// GetIndex retrieves an index definition by name.
	// Returns ErrEntryNotFound if no such index exists.
	GetIndex(ctx context.Context, name string) (Index, error)

	// RemoveIndex deletes an index definition. Removing a missing index is
	// not an error.
	RemoveIndex(ctx context.Context, name string) error

	// Indexes lists all persisted index definitions.
	Indexes(ctx context.Context) ([]Index, error)
}

// AdapterStore persists adapter metadata keyed by internal adapter ID.
type AdapterStore interface {
	// AddAdapter persists adapter metadata, replacing any existing record
	// with the same internal ID.
	AddAdapter(ctx context.Context, adapter Adapter) error

	// GetAdapter retrieves adapter metadata by internal ID.
	// Returns ErrEntryNotFound if no such adapter exists.
	GetAdapter(ctx context.Context, id AdapterID) (Adapter, error)

	// RemoveAdapter deletes an adapter record. Removing a missing adapter is
	// not an error.
	RemoveAdapter(ctx context.Context, id AdapterID) error

	// Adapters lists all persisted adapter records.
	Adapters(ctx context.Context) ([]Adapter, error)
}

// InternalAdapterStore maintains the bidirectional mapping between external
// adapter names and short internal adapter IDs. IDs are assigned
// monotonically and never reused.
type InternalAdapterStore interface {
	// GetAdapterID looks up the internal ID for an adapter name. The second
	// return value reports whether the name has been assigned an ID.
	GetAdapterID(ctx context.Context, name string) (AdapterID, bool, error)

	// AddAdapterID assigns and persists an internal ID for an adapter name,
	// returning the existing ID if the name is already known.
	AddAdapterID(ctx context.Context, name string) (AdapterID, error)

	// GetAdapterName reverses an internal ID to its adapter name.
	// Returns ErrEntryNotFound if the ID has never been assigned.
	GetAdapterName(ctx context.Context, id AdapterID) (string, error)
}

// StatisticsStore persists named statistic values per adapter.
type StatisticsStore interface {
	// SetStatistic persists a statistic, replacing any existing value with
	// the same adapter ID and name.
	SetStatistic(ctx context.Context, stat Statistic) error

	// GetStatistic retrieves a statistic by adapter ID and name.
	// Returns ErrEntryNotFound if no such statistic exists.
	GetStatistic(ctx context.Context, id AdapterID, name string) (Statistic, error)

	// RemoveStatistic deletes a statistic. Removing a missing statistic is
	// not an error.
	RemoveStatistic(ctx context.Context, id AdapterID, name string) error
}

// IndexMappingStore persists the set of indexes each adapter writes to.
type IndexMappingStore interface {
	// AddMapping records the index names used by an adapter, replacing any
	// previous mapping for that adapter.
	AddMapping(ctx context.Context, id AdapterID, indexNames []string) error

	// IndicesForAdapter returns the index names recorded for an adapter.
	// An adapter with no recorded mapping yields an empty slice, not an
	// error.
	IndicesForAdapter(ctx context.Context, id AdapterID) ([]string, error)

	// RemoveMapping deletes the mapping for an adapter. Removing a missing
	// mapping is not an error.
	RemoveMapping(ctx context.Context, id AdapterID) error
}
