package accountResolver

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ownerLocks hands out one mutex per owner address. Entries are reference
// counted and removed once the last holder releases, so the map only holds
// owners with a resolution in flight.
type ownerLocks struct {
	mu      sync.Mutex
	entries map[common.Address]*ownerLockEntry
}

type ownerLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{
		entries: make(map[common.Address]*ownerLockEntry),
	}
}

// lock blocks until the owner's lock is held and returns the release func.
func (l *ownerLocks) lock(owner common.Address) func() {
	l.mu.Lock()
	entry, ok := l.entries[owner]
	if !ok {
		entry = &ownerLockEntry{}
		l.entries[owner] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, owner)
		}
		l.mu.Unlock()
	}
}
