package transactionSigner

import (
	"context"
	"sync"
)

// nonceManager serializes use of the relayer account nonce. At most one
// submission holds a reservation at a time, and the cached nonce advances
// only after the backend accepts the transaction. Submissions that never
// reach the backend drop the cache so the next reservation refetches the
// pending nonce from the network.
type nonceManager struct {
	mu     sync.Mutex
	next   uint64
	primed bool
}

func newNonceManager() *nonceManager {
	return &nonceManager{}
}

// reserve locks the manager and returns the nonce for the next submission,
// fetching the pending nonce from the backend if no cached value is held.
// The caller must release the reservation with either submitted or abandon.
func (nm *nonceManager) reserve(ctx context.Context, fetch func(context.Context) (uint64, error)) (uint64, error) {
	nm.mu.Lock()
	if !nm.primed {
		n, err := fetch(ctx)
		if err != nil {
			nm.mu.Unlock()
			return 0, err
		}
		nm.next = n
		nm.primed = true
	}
	return nm.next, nil
}

// submitted records that the reserved nonce reached the backend and releases
// the reservation.
func (nm *nonceManager) submitted() {
	nm.next++
	nm.mu.Unlock()
}

// abandon releases the reservation without advancing. The cache is
// invalidated because the backend may or may not have seen the nonce.
func (nm *nonceManager) abandon() {
	nm.primed = false
	nm.mu.Unlock()
}
