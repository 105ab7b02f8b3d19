package relay

import (
	"sync"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/time/rate"
)

// ownerLimiters bounds how fast each owner may spend the relayer's gas. This
// is resource protection, not authentication; the signature check remains the
// sole authorization gate.
type ownerLimiters struct {
	mu       sync.Mutex
	limiters map[common.Address]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func newOwnerLimiters(cfg config.RateLimitConfig) *ownerLimiters {
	return &ownerLimiters{
		limiters: make(map[common.Address]*rate.Limiter),
		rps:      rate.Limit(cfg.OwnerRPS),
		burst:    cfg.OwnerBurst,
	}
}

// allow reports whether the owner may submit now. A zero rate disables
// limiting entirely.
func (l *ownerLimiters) allow(owner common.Address) bool {
	if l.rps == 0 {
		return true
	}

	l.mu.Lock()
	limiter, ok := l.limiters[owner]
	if !ok {
		limiter = rate.NewLimiter(l.rps, l.burst)
		l.limiters[owner] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
