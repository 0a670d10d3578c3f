package storeconfig

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/gridstore/auth"
	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/params"
	"github.com/gridforge/gridstore/storefamily"
)

type stubDataStore struct{ interfaces.DataStore }
type stubIndexStore struct{ interfaces.IndexStore }
type stubAdapterStore struct{ interfaces.AdapterStore }
type stubInternalStore struct{ interfaces.InternalAdapterStore }
type stubStatisticsStore struct{ interfaces.StatisticsStore }
type stubMappingStore struct{ interfaces.IndexMappingStore }

// stubFamily recognizes mappings carrying its key parameter and counts
// constructor invocations. failures makes the next N data store
// constructions fail.
type stubFamily struct {
	name string
	key  string

	mu        sync.Mutex
	dataCalls int
	failures  int
}

func (f *stubFamily) Name() string { return f.name }

func (f *stubFamily) Recognizes(params map[string]string) bool {
	_, ok := params[f.key]
	return ok
}

func (f *stubFamily) NewDataStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.DataStore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataCalls++
	if f.failures > 0 {
		f.failures--
		return nil, fmt.Errorf("%w: backend offline", interfaces.ErrStoreUnavailable)
	}
	return &stubDataStore{}, nil
}

func (f *stubFamily) NewIndexStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexStore, error) {
	return &stubIndexStore{}, nil
}

func (f *stubFamily) NewAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.AdapterStore, error) {
	return &stubAdapterStore{}, nil
}

func (f *stubFamily) NewInternalAdapterStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.InternalAdapterStore, error) {
	return &stubInternalStore{}, nil
}

func (f *stubFamily) NewStatisticsStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.StatisticsStore, error) {
	return &stubStatisticsStore{}, nil
}

func (f *stubFamily) NewIndexMappingStore(ctx context.Context, params map[string]string, log *slog.Logger) (interfaces.IndexMappingStore, error) {
	return &stubMappingStore{}, nil
}

func (f *stubFamily) dataStoreCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dataCalls
}

func newTestCache(t *testing.T, families ...interfaces.StoreFamily) *Cache {
	t.Helper()
	reg := storefamily.NewRegistry()
	for _, family := range families {
		reg.Register(family)
	}
	return NewCache(slog.Default(), WithFamilyRegistry(reg), WithAuthRegistry(auth.NewRegistry()))
}

func TestResolveReturnsIdenticalInstanceForEqualDescriptors(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})
	ctx := context.Background()

	first, err := cache.Resolve(ctx, "stub.id=a;scaleTo8Bit=true")
	require.NoError(t, err)
	second, err := cache.Resolve(ctx, "stub.id=a;scaleTo8Bit=true")
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := cache.Resolve(ctx, "stub.id=b")
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, cache.Len())
}

func TestResolveConcurrentFirstAccessYieldsOneInstance(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})
	ctx := context.Background()

	const workers = 32
	results := make([]*Config, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			cfg, err := cache.Resolve(ctx, "stub.id=shared")
			require.NoError(t, err)
			results[i] = cfg
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, cache.Len())
}

func TestResolveFailureIsNotCached(t *testing.T) {
	reg := storefamily.NewRegistry()
	cache := NewCache(slog.Default(), WithFamilyRegistry(reg), WithAuthRegistry(auth.NewRegistry()))
	ctx := context.Background()

	_, err := cache.Resolve(ctx, "stub.id=a")
	require.ErrorIs(t, err, storefamily.ErrNoMatchingBackend)
	assert.Equal(t, 0, cache.Len())

	reg.Register(&stubFamily{name: "stub", key: "stub.id"})
	cfg, err := cache.Resolve(ctx, "stub.id=a")
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Family().Name())
	assert.Equal(t, 1, cache.Len())
}

func TestResolveMalformedDescriptor(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})

	_, err := cache.Resolve(context.Background(), "stub.id=a;=orphan")
	assert.ErrorIs(t, err, params.ErrMalformedDescriptor)
	assert.Equal(t, 0, cache.Len())
}

func TestResolveInvalidOverrideIsNotCached(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})

	_, err := cache.Resolve(context.Background(), "stub.id=a;interpolationOverride=nearest")
	assert.ErrorIs(t, err, ErrInvalidOverrideValue)
	assert.Equal(t, 0, cache.Len())
}

func TestResolveDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<config><stub.id>doc</stub.id><scaleTo8Bit>true</scaleTo8Bit></config>`)
	}))
	defer server.Close()

	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})
	ctx := context.Background()

	cfg, err := cache.ResolveDocument(ctx, server.URL)
	require.NoError(t, err)
	assert.Equal(t, "doc", cfg.StoreParams()["stub.id"])
	require.True(t, cfg.IsScaleTo8BitSet())
	scale, err := cfg.ScaleTo8Bit()
	require.NoError(t, err)
	assert.True(t, scale)

	again, err := cache.ResolveDocument(ctx, server.URL)
	require.NoError(t, err)
	assert.Same(t, cfg, again)
}

func TestResolveDocumentUnreachableIsNotCached(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})

	_, err := cache.ResolveDocument(context.Background(), "http://127.0.0.1:1/config.xml")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())
}

func TestDescriptorsSorted(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})
	ctx := context.Background()

	for _, d := range []string{"stub.id=c", "stub.id=a", "stub.id=b"} {
		_, err := cache.Resolve(ctx, d)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"stub.id=a", "stub.id=b", "stub.id=c"}, cache.Descriptors())

	cache.Reset()
	assert.Equal(t, 0, cache.Len())
}

func TestStoreHandleConstructedOnce(t *testing.T) {
	family := &stubFamily{name: "stub", key: "stub.id"}
	cache := newTestCache(t, family)
	ctx := context.Background()

	cfg, err := cache.Resolve(ctx, "stub.id=a")
	require.NoError(t, err)
	assert.Equal(t, 0, family.dataStoreCalls())

	first, err := cfg.DataStore(ctx)
	require.NoError(t, err)
	second, err := cfg.DataStore(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, family.dataStoreCalls())
}

func TestStoreHandleConcurrentAccess(t *testing.T) {
	family := &stubFamily{name: "stub", key: "stub.id"}
	cache := newTestCache(t, family)
	ctx := context.Background()

	cfg, err := cache.Resolve(ctx, "stub.id=a")
	require.NoError(t, err)

	const workers = 16
	results := make([]interfaces.DataStore, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store, err := cfg.DataStore(ctx)
			require.NoError(t, err)
			results[i] = store
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, family.dataStoreCalls())
}

func TestStoreHandleRetriesAfterFailure(t *testing.T) {
	family := &stubFamily{name: "stub", key: "stub.id", failures: 1}
	cache := newTestCache(t, family)
	ctx := context.Background()

	cfg, err := cache.Resolve(ctx, "stub.id=a")
	require.NoError(t, err)

	_, err = cfg.DataStore(ctx)
	require.ErrorIs(t, err, ErrStoreConstruction)
	require.ErrorIs(t, err, interfaces.ErrStoreUnavailable)

	store, err := cfg.DataStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, store)
	assert.Equal(t, 2, family.dataStoreCalls())
}

func TestStoreKindsAreIndependent(t *testing.T) {
	family := &stubFamily{name: "stub", key: "stub.id"}
	cache := newTestCache(t, family)
	ctx := context.Background()

	cfg, err := cache.Resolve(ctx, "stub.id=a")
	require.NoError(t, err)

	indexStore, err := cfg.IndexStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, indexStore)

	adapterStore, err := cfg.AdapterStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, adapterStore)

	internalStore, err := cfg.InternalAdapterStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, internalStore)

	statsStore, err := cfg.StatisticsStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, statsStore)

	mappingStore, err := cfg.IndexMappingStore(ctx)
	require.NoError(t, err)
	assert.NotNil(t, mappingStore)

	assert.Equal(t, 0, family.dataStoreCalls())
}

func TestUnknownAuthorizationProviderFallsBackToEmpty(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})
	ctx := context.Background()

	cfg, err := cache.Resolve(ctx, "stub.id=a;authorizationProvider=none-registered-xyz")
	require.NoError(t, err)
	assert.Equal(t, "empty", cfg.AuthorizationFactory().Name())

	provider := cfg.NewAuthorizationProvider()
	grants, err := provider.Authorizations(ctx, "anyone")
	require.NoError(t, err)
	assert.Empty(t, grants)
}

func TestMalformedAuthorizationURLIsTolerated(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})

	cfg, err := cache.Resolve(context.Background(), "stub.id=a;authorizationUrl=::not a url::")
	require.NoError(t, err)
	assert.Nil(t, cfg.AuthorizationURL())
}

func TestStoreParamsReturnsCopy(t *testing.T) {
	cache := newTestCache(t, &stubFamily{name: "stub", key: "stub.id"})

	cfg, err := cache.Resolve(context.Background(), "stub.id=a")
	require.NoError(t, err)

	got := cfg.StoreParams()
	got["stub.id"] = "mutated"
	assert.Equal(t, "a", cfg.StoreParams()["stub.id"])
}
