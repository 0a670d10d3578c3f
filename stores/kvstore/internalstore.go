package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/gridforge/gridstore/interfaces"
)

const (
	internalNamePrefix = "name/"
	internalIDPrefix   = "id/"
	internalCounterKey = "next_id"
)

// internalAdapterStore maintains the bidirectional adapter name/ID mapping
// in the internal adapter namespace. ID assignment reads and bumps a counter
// record; the instance mutex keeps assignment atomic within the process.
type internalAdapterStore struct {
	kv KV
	mu sync.Mutex
}

func newInternalAdapterStore(kv KV) interfaces.InternalAdapterStore {
	return &internalAdapterStore{kv: kv}
}

func (s *internalAdapterStore) GetAdapterID(ctx context.Context, name string) (interfaces.AdapterID, bool, error) {
	raw, err := s.kv.Get(ctx, NamespaceInternalAdapter, internalNamePrefix+name)
	if errors.Is(err, interfaces.ErrEntryNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := parseAdapterID(raw)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt ID record for adapter %q: %w", name, err)
	}
	return id, true, nil
}

func (s *internalAdapterStore) AddAdapterID(ctx context.Context, name string) (interfaces.AdapterID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok, err := s.GetAdapterID(ctx, name)
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}

	next, err := s.nextID(ctx)
	if err != nil {
		return 0, err
	}

	encoded := []byte(strconv.FormatUint(uint64(next), 10))
	if err := s.kv.Put(ctx, NamespaceInternalAdapter, internalNamePrefix+name, encoded); err != nil {
		return 0, err
	}
	if err := s.kv.Put(ctx, NamespaceInternalAdapter, internalIDPrefix+next.String(), []byte(name)); err != nil {
		return 0, err
	}
	return next, nil
}

func (s *internalAdapterStore) GetAdapterName(ctx context.Context, id interfaces.AdapterID) (string, error) {
	raw, err := s.kv.Get(ctx, NamespaceInternalAdapter, internalIDPrefix+id.String())
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// nextID bumps the persisted counter and returns the newly assigned ID.
// Callers hold the instance mutex.
func (s *internalAdapterStore) nextID(ctx context.Context) (interfaces.AdapterID, error) {
	var next interfaces.AdapterID = 1
	raw, err := s.kv.Get(ctx, NamespaceInternalAdapter, internalCounterKey)
	if err != nil && !errors.Is(err, interfaces.ErrEntryNotFound) {
		return 0, err
	}
	if err == nil {
		current, err := parseAdapterID(raw)
		if err != nil {
			return 0, fmt.Errorf("corrupt adapter ID counter: %w", err)
		}
		next = current + 1
	}

	encoded := []byte(strconv.FormatUint(uint64(next), 10))
	if err := s.kv.Put(ctx, NamespaceInternalAdapter, internalCounterKey, encoded); err != nil {
		return 0, err
	}
	return next, nil
}

func parseAdapterID(raw []byte) (interfaces.AdapterID, error) {
	v, err := strconv.ParseUint(string(raw), 10, 32)
	if err != nil {
		return 0, err
	}
	return interfaces.AdapterID(v), nil
}
