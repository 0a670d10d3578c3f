package storeconfig

import "sync"

// lazyHandle is a compute-once cell with retry-on-failure semantics: the
// build function runs under the cell mutex until it succeeds once, after
// which the cached value is returned forever. A failed build leaves the
// cell unset so the next call retries. Each store kind gets its own cell,
// so construction of one kind never blocks access to another.
type lazyHandle[T any] struct {
	mu    sync.Mutex
	value T
	ok    bool
}

func (l *lazyHandle[T]) get(build func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ok {
		return l.value, nil
	}

	value, err := build()
	if err != nil {
		var zero T
		return zero, err
	}

	l.value = value
	l.ok = true
	return l.value, nil
}
