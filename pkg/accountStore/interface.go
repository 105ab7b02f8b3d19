package accountStore

import (
	"math/big"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// IAccountStore defines the interface for persisting smart-account records
// across restarts. All implementations must be thread-safe as relay
// operations are concurrent; backends do not provide cross-process
// transactions, so callers serialize mutations per account.
//
// The interface supports:
// - Account record management (save, load by owner, load by smart account, list)
// - Cached nonce maintenance (update after a live read, invalidate after execution)
// - Lifecycle management (close, health check)
type IAccountStore interface {
	// Account Record Management

	// SaveAccount persists a smart-account record indexed by owner address.
	// Overwrites any existing record for the same owner and refreshes the
	// smart-account index entry. Stamps UpdatedAt.
	// Returns error only on storage failure, not if the record already exists.
	SaveAccount(record *types.SmartAccountRecord) error

	// GetAccount retrieves the record for an owner address.
	// Returns nil if no record exists, error only on storage failure.
	GetAccount(owner common.Address) (*types.SmartAccountRecord, error)

	// GetAccountBySmartAccount retrieves the record whose deployed smart
	// account matches the given address.
	// Returns nil if no record exists, error only on storage failure.
	GetAccountBySmartAccount(account common.Address) (*types.SmartAccountRecord, error)

	// ListAccounts returns all persisted records sorted by owner address (ascending).
	// Returns empty slice if no records exist, error only on storage failure.
	ListAccounts() ([]*types.SmartAccountRecord, error)

	// Cached Nonce Maintenance

	// UpdateCachedNonce stores the account nonce observed on chain for the
	// given smart account. Stamps UpdatedAt.
	// Returns an error if no record exists for the smart account.
	UpdateCachedNonce(account common.Address, nonce *big.Int) error

	// InvalidateNonce clears the cached nonce for the given smart account.
	// Called after every successful execution because the on-chain nonce
	// has advanced. Idempotent - returns nil if no record exists.
	// Returns error only on storage failure.
	InvalidateNonce(account common.Address) error

	// Lifecycle Management

	// Close cleanly shuts down the store.
	// Idempotent - safe to call multiple times.
	// After Close(), all other operations should return errors.
	Close() error

	// HealthCheck verifies the store is operational.
	// Returns nil if healthy, error describing the problem if not.
	// Should be called during server startup to fail fast.
	HealthCheck() error
}
