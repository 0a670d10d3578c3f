package interfaces

import (
	"context"
	"log/slog"
)

// StoreFamily bundles per-store-kind constructors for one storage backend
// implementation. A family is selected once per resolved configuration by
// probing registered families with the backend-specific parameter mapping;
// the six constructors are then invoked lazily, at most once per
// configuration per store kind.
//
// Constructors receive the full backend parameter mapping and must treat it
// as read-only. They may block on backend I/O and must honor the supplied
// context.
type StoreFamily interface {
	// Name returns the family identifier used in logs and diagnostics.
	Name() string

	// Recognizes reports whether this family can service the given
	// backend-specific parameter mapping, typically by recognizing a
	// required identifying parameter.
	Recognizes(params map[string]string) bool

	// NewDataStore constructs the data store for the mapping.
	NewDataStore(ctx context.Context, params map[string]string, log *slog.Logger) (DataStore, error)

	// NewIndexStore constructs the index store for the mapping.
	NewIndexStore(ctx context.Context, params map[string]string, log *slog.Logger) (IndexStore, error)

	// NewAdapterStore constructs the persistent adapter store for the mapping.
	NewAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (AdapterStore, error)

	// NewInternalAdapterStore constructs the internal adapter ID store for
	// the mapping.
	NewInternalAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (InternalAdapterStore, error)

	// NewStatisticsStore constructs the data statistics store for the mapping.
	NewStatisticsStore(ctx context.Context, params map[string]string, log *slog.Logger) (StatisticsStore, error)

	// NewIndexMappingStore constructs the adapter-index-mapping store for
	// the mapping.
	NewIndexMappingStore(ctx context.Context, params map[string]string, log *slog.Logger) (IndexMappingStore, error)
}
