// Package interfaces defines the core interfaces and types for the gridstore
// configuration subsystem. It provides the contract between different
// components without implementation details.
package interfaces

import (
	"errors"
	"fmt"
	"strings"
)

// AdapterID is the short internal identifier assigned to an adapter by an
// InternalAdapterStore. IDs are assigned once per adapter name and are stable
// for the life of the backing store.
type AdapterID uint32

// String returns the decimal representation used in store keys.
func (id AdapterID) String() string {
	return fmt.Sprintf("%d", id)
}

// Index describes a persisted index definition.
type Index struct {
	// Name uniquely identifies the index within a backend.
	Name string `json:"name"`

	// Strategy names the indexing strategy used to produce row keys.
	Strategy string `json:"strategy"`

	// NumDimensions is the dimensionality of the indexed space.
	NumDimensions int `json:"numDimensions"`
}

// Validate checks that the index definition is usable as a store record.
func (i Index) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return errors.New("index name must not be empty")
	}
	return nil
}

// Adapter describes persisted adapter metadata. The Payload carries the
// serialized adapter definition; this subsystem treats it as opaque.
type Adapter struct {
	// ID is the internal adapter ID assigned by the InternalAdapterStore.
	ID AdapterID `json:"id"`

	// Name is the externally visible adapter name.
	Name string `json:"name"`

	// Payload is the serialized adapter definition.
	Payload []byte `json:"payload,omitempty"`
}

// Validate checks that the adapter is usable as a store record.
func (a Adapter) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("adapter name must not be empty")
	}
	return nil
}

// Statistic is a named statistic value tracked for one adapter.
type Statistic struct {
	// AdapterID identifies the adapter the statistic belongs to.
	AdapterID AdapterID `json:"adapterId"`

	// Name identifies the statistic within the adapter (e.g. "row_count").
	Name string `json:"name"`

	// Value is the statistic payload, serialized by the producer.
	Value []byte `json:"value,omitempty"`
}

// Validate checks that the statistic is usable as a store record.
func (s Statistic) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("statistic name must not be empty")
	}
	return nil
}
