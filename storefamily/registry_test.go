package storefamily

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/gridstore/interfaces"
)

// stubFamily recognizes mappings containing its identifying parameter. The
// store constructors are never exercised by registry tests.
type stubFamily struct {
	name     string
	keyParam string
}

func (f *stubFamily) Name() string { return f.name }

func (f *stubFamily) Recognizes(params map[string]string) bool {
	_, ok := params[f.keyParam]
	return ok
}

func (f *stubFamily) NewDataStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.DataStore, error) {
	return nil, nil
}

func (f *stubFamily) NewIndexStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexStore, error) {
	return nil, nil
}

func (f *stubFamily) NewAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.AdapterStore, error) {
	return nil, nil
}

func (f *stubFamily) NewInternalAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.InternalAdapterStore, error) {
	return nil, nil
}

func (f *stubFamily) NewStatisticsStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.StatisticsStore, error) {
	return nil, nil
}

func (f *stubFamily) NewIndexMappingStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexMappingStore, error) {
	return nil, nil
}

func TestRegistryFind(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubFamily{name: "alpha", keyParam: "alpha.path"})
	reg.Register(&stubFamily{name: "beta", keyParam: "beta.path"})

	family, err := reg.Find(map[string]string{"beta.path": "/tmp"})
	require.NoError(t, err)
	assert.Equal(t, "beta", family.Name())
}

func TestRegistryFindNoMatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubFamily{name: "alpha", keyParam: "alpha.path"})

	_, err := reg.Find(map[string]string{"gamma.path": "/tmp"})
	require.ErrorIs(t, err, ErrNoMatchingBackend)
}

func TestRegistryFirstMatchWins(t *testing.T) {
	// Two families claiming the same parameter: selection is registration
	// order dependent, first registered wins.
	reg := NewRegistry()
	reg.Register(&stubFamily{name: "first", keyParam: "shared.param"})
	reg.Register(&stubFamily{name: "second", keyParam: "shared.param"})

	family, err := reg.Find(map[string]string{"shared.param": "x"})
	require.NoError(t, err)
	assert.Equal(t, "first", family.Name())
}

func TestRegistryDuplicateNamePanics(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubFamily{name: "alpha", keyParam: "alpha.path"})

	assert.Panics(t, func() {
		reg.Register(&stubFamily{name: "alpha", keyParam: "other.path"})
	})
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubFamily{name: "alpha", keyParam: "alpha.path"})
	reg.Register(&stubFamily{name: "beta", keyParam: "beta.path"})

	assert.Equal(t, []string{"alpha", "beta"}, reg.Names())

	reg.Reset()
	assert.Empty(t, reg.Names())
}
