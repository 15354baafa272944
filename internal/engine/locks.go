package engine

import "sync"

// lockTable serializes units of work per match. Operations on different
// matches never wait on each other.
//
// Entries are reference counted and dropped when the last holder or
// waiter releases, so the table only holds matches with work in flight.
type lockTable struct {
	mu    sync.Mutex
	locks map[int64]*matchLock
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[int64]*matchLock)}
}

// lock blocks until the caller holds the lock for matchID and returns the
// function that releases it.
func (t *lockTable) lock(matchID int64) (unlock func()) {
	t.mu.Lock()
	l, ok := t.locks[matchID]
	if !ok {
		l = &matchLock{}
		t.locks[matchID] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, matchID)
		}
		t.mu.Unlock()
	}
}

// size returns the number of matches with work in flight.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
