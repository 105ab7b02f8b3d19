package relay

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// accountLocks hands out one mutex per smart-account address. Entries are
// reference counted and removed once the last holder releases, so the map
// only holds accounts with a submission in flight.
type accountLocks struct {
	mu      sync.Mutex
	entries map[common.Address]*accountLockEntry
}

type accountLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{
		entries: make(map[common.Address]*accountLockEntry),
	}
}

// lock blocks until the account's lock is held and returns the release func.
func (l *accountLocks) lock(account common.Address) func() {
	l.mu.Lock()
	entry, ok := l.entries[account]
	if !ok {
		entry = &accountLockEntry{}
		l.entries[account] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, account)
		}
		l.mu.Unlock()
	}
}
