// Package interfaces defines core interfaces and types for the gridstore
// configuration subsystem, separating interface definitions from
// implementations.
//
// The package provides interfaces for the key components of the system:
//
// # Store Interfaces
//
// The six store kinds managed per resolved configuration:
//
//   - DataStore: keyed row storage partitioned by index
//   - IndexStore: persisted index definitions
//   - AdapterStore: persisted adapter metadata keyed by internal adapter ID
//   - InternalAdapterStore: bidirectional adapter name to internal ID mapping
//   - StatisticsStore: per-adapter named statistic values
//   - IndexMappingStore: adapter to index-name associations
//
// # Factory Interfaces
//
// StoreFamily: A bundle of per-store-kind constructors for one storage
// backend implementation. A family recognizes the backend-specific parameter
// mapping that belongs to it and constructs each store kind from that
// mapping.
//
// # Authorization Interfaces
//
// AuthorizationFactory: A pluggable, name-keyed authorization strategy.
// AuthorizationProvider: Created by a factory, supplies the authorizations
// granted to a subject.
package interfaces
