// Package memory provides process-local stores with the same contracts as the
// Postgres repositories.
package memory

import "sync"

// lockTable hands out one mutex per entity id.
type lockTable struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[int64]*sync.Mutex)}
}

func (t *lockTable) lock(id int64) func() {
	t.mu.Lock()
	m, ok := t.locks[id]
	if !ok {
		m = &sync.Mutex{}
		t.locks[id] = m
	}
	t.mu.Unlock()

	m.Lock()
	return m.Unlock
}
