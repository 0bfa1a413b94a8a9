package workflow

import "sync"

// keyedMutex hands out one mutex per aggregate id, serializing the
// check-then-act sequences on a single petition or response while leaving
// unrelated aggregates fully concurrent.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock func. Entries are
// never evicted; cardinality is bounded by the set of live aggregates.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
