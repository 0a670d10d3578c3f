// Package boltstore provides a store family backed by a bbolt database
// file. It recognizes the "bolt.path" parameter naming the database file;
// each namespace becomes one bucket. A single file serves all six store
// kinds of a configuration through the shared connection.
package boltstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
	"github.com/gridforge/gridstore/storefamily"
)

// ParamPath is the identifying parameter of the bolt family.
const ParamPath = "bolt.path"

// openTimeout bounds how long the bolt file lock is waited for, so a second
// process holding the file surfaces as a construction error instead of a
// hang.
const openTimeout = 5 * time.Second

// Family is the registered bolt store family.
var Family = kvstore.NewFamily("bolt", ParamPath, open)

func init() {
	storefamily.Register(Family)
}

func open(ctx context.Context, params map[string]string, log *slog.Logger) (kvstore.KV, error) {
	path := params[ParamPath]
	if path == "" {
		return nil, fmt.Errorf("parameter %q must not be empty", ParamPath)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: opening bolt database %s: %v", interfaces.ErrStoreUnavailable, path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, ns := range kvstore.Namespaces() {
			if _, err := tx.CreateBucketIfNotExists([]byte(ns)); err != nil {
				return fmt.Errorf("creating bucket %s: %w", ns, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("Opened bolt store", slog.String("path", path))
	return &boltKV{db: db}, nil
}

type boltKV struct {
	db *bolt.DB
}

func (b *boltKV) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ns)).Put([]byte(key), value)
	})
}

func (b *boltKV) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket([]byte(ns)).Get([]byte(key))
		if raw == nil {
			return interfaces.ErrEntryNotFound
		}
		value = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (b *boltKV) Delete(ctx context.Context, ns kvstore.Namespace, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ns)).Delete([]byte(key))
	})
}

func (b *boltKV) List(ctx context.Context, ns kvstore.Namespace) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(ns)).ForEach(func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (b *boltKV) Close() error {
	return b.db.Close()
}
