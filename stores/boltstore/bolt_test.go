package boltstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestKV(t *testing.T) kvstore.KV {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stores.db")
	kv, err := open(context.Background(), map[string]string{ParamPath: path}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestBoltKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := openTestKV(t)

	require.NoError(t, kv.Put(ctx, kvstore.NamespaceAdapter, "1", []byte("landsat")))

	got, err := kv.Get(ctx, kvstore.NamespaceAdapter, "1")
	require.NoError(t, err)
	assert.Equal(t, []byte("landsat"), got)

	// Namespaces map to separate buckets.
	_, err = kv.Get(ctx, kvstore.NamespaceIndex, "1")
	require.ErrorIs(t, err, interfaces.ErrEntryNotFound)

	keys, err := kv.List(ctx, kvstore.NamespaceAdapter)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, keys)

	require.NoError(t, kv.Delete(ctx, kvstore.NamespaceAdapter, "1"))
	_, err = kv.Get(ctx, kvstore.NamespaceAdapter, "1")
	require.ErrorIs(t, err, interfaces.ErrEntryNotFound)

	require.NoError(t, kv.Delete(ctx, kvstore.NamespaceAdapter, "1"))
}

func TestBoltKVPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "stores.db")
	params := map[string]string{ParamPath: path}

	kv, err := open(ctx, params, discardLogger())
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, kvstore.NamespaceStatistics, "3/row_count", []byte("42")))
	require.NoError(t, kv.Close())

	kv, err = open(ctx, params, discardLogger())
	require.NoError(t, err)
	defer kv.Close()

	got, err := kv.Get(ctx, kvstore.NamespaceStatistics, "3/row_count")
	require.NoError(t, err)
	assert.Equal(t, []byte("42"), got)
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := open(context.Background(), map[string]string{}, discardLogger())
	require.Error(t, err)
}

func TestFamilyRecognizes(t *testing.T) {
	assert.True(t, Family.Recognizes(map[string]string{ParamPath: "/tmp/db"}))
	assert.False(t, Family.Recognizes(map[string]string{"file.path": "/tmp"}))
}
