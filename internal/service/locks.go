package service

import "sync"

// battleLocks serializes mutating operations per battle. Turn and HP
// invariants depend on read-modify-write atomicity across both participant
// records plus the battle's turn/status fields, so the whole aggregate is the
// locking unit. Locks are never removed; a finished battle rejects mutation
// anyway and the map stays small relative to live traffic.
type battleLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newBattleLocks() *battleLocks {
	return &battleLocks{locks: make(map[uint]*sync.Mutex)}
}

func (l *battleLocks) get(battleID uint) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[battleID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[battleID] = m
	}
	return m
}
