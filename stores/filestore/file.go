// Package filestore provides a store family backed by the local file
// system. It recognizes the "file.path" parameter naming the base directory;
// each namespace becomes a subdirectory and each entry a file named by the
// escaped key.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gridforge/gridstore/interfaces"
	"github.com/gridforge/gridstore/stores/kvstore"
	"github.com/gridforge/gridstore/storefamily"
)

// ParamPath is the identifying parameter of the file family.
const ParamPath = "file.path"

// Family is the registered file store family.
var Family = kvstore.NewFamily("file", ParamPath, open)

func init() {
	storefamily.Register(Family)
}

func open(ctx context.Context, params map[string]string, log *slog.Logger) (kvstore.KV, error) {
	baseDir := params[ParamPath]
	if baseDir == "" {
		return nil, fmt.Errorf("parameter %q must not be empty", ParamPath)
	}

	// Ensure base directory and per-namespace subdirectories exist.
	for _, ns := range kvstore.Namespaces() {
		if err := os.MkdirAll(filepath.Join(baseDir, string(ns)), 0755); err != nil {
			return nil, fmt.Errorf("creating directory for namespace %s: %w", ns, err)
		}
	}

	log.Debug("Opened file store", slog.String("baseDir", baseDir))
	return &fileKV{baseDir: baseDir}, nil
}

type fileKV struct {
	baseDir string
}

func (f *fileKV) Put(ctx context.Context, ns kvstore.Namespace, key string, value []byte) error {
	path := f.entryPath(ns, key)
	if err := os.WriteFile(path, value, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func (f *fileKV) Get(ctx context.Context, ns kvstore.Namespace, key string) ([]byte, error) {
	path := f.entryPath(ns, key)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, interfaces.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

func (f *fileKV) Delete(ctx context.Context, ns kvstore.Namespace, key string) error {
	err := os.Remove(f.entryPath(ns, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *fileKV) List(ctx context.Context, ns kvstore.Namespace) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(f.baseDir, string(ns)))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key, err := url.PathUnescape(entry.Name())
		if err != nil {
			// Not one of ours; ignore.
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *fileKV) Close() error {
	return nil
}

// entryPath escapes the key so keys containing path separators cannot
// escape the namespace directory.
func (f *fileKV) entryPath(ns kvstore.Namespace, key string) string {
	return filepath.Join(f.baseDir, string(ns), url.PathEscape(key))
}
