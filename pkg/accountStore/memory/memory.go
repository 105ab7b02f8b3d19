package memory

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
)

// MemoryAccountStore is an in-memory implementation of IAccountStore.
// This implementation is intended for TESTING ONLY.
//
// All data is stored in memory and will be lost when the process exits.
// Thread-safe using sync.RWMutex for concurrent access.
// Deep copies records to prevent external mutation.
type MemoryAccountStore struct {
	mu sync.RWMutex

	// Account records: owner -> SmartAccountRecord
	accounts map[common.Address]*types.SmartAccountRecord

	// Reverse index: smart account -> owner.
	// One owner maps to exactly one smart account (deterministic deployment),
	// so entries are never re-pointed.
	ownerByAccount map[common.Address]common.Address

	// Closed flag
	closed bool
}

// NewMemoryAccountStore creates a new in-memory account store.
// Prints a loud warning since this should only be used for testing.
func NewMemoryAccountStore() *MemoryAccountStore {
	fmt.Println("⚠️  WARNING: Using in-memory account store - ALL DATA WILL BE LOST ON RESTART")
	fmt.Println("⚠️  This should ONLY be used for testing. Set RELAY_STORE_BACKEND=badger for production")

	return &MemoryAccountStore{
		accounts:       make(map[common.Address]*types.SmartAccountRecord),
		ownerByAccount: make(map[common.Address]common.Address),
	}
}

// SaveAccount persists a smart-account record.
func (m *MemoryAccountStore) SaveAccount(record *types.SmartAccountRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil SmartAccountRecord")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("account store is closed")
	}

	// Deep copy to prevent external mutation
	stored := record.Copy()
	stored.UpdatedAt = time.Now().Unix()

	m.accounts[stored.Owner] = stored
	m.ownerByAccount[stored.SmartAccount] = stored.Owner

	return nil
}

// GetAccount retrieves the record for an owner address.
func (m *MemoryAccountStore) GetAccount(owner common.Address) (*types.SmartAccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	record, exists := m.accounts[owner]
	if !exists {
		return nil, nil // Not found is not an error
	}

	// Deep copy to prevent external mutation
	return record.Copy(), nil
}

// GetAccountBySmartAccount retrieves the record for a smart account address.
func (m *MemoryAccountStore) GetAccountBySmartAccount(account common.Address) (*types.SmartAccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	owner, exists := m.ownerByAccount[account]
	if !exists {
		return nil, nil // Not found is not an error
	}

	record, exists := m.accounts[owner]
	if !exists {
		return nil, nil
	}

	return record.Copy(), nil
}

// ListAccounts returns all records sorted by owner address.
func (m *MemoryAccountStore) ListAccounts() ([]*types.SmartAccountRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, fmt.Errorf("account store is closed")
	}

	// Collect owners and sort
	owners := make([]common.Address, 0, len(m.accounts))
	for owner := range m.accounts {
		owners = append(owners, owner)
	}
	sort.Slice(owners, func(i, j int) bool {
		return bytes.Compare(owners[i].Bytes(), owners[j].Bytes()) < 0
	})

	// Build sorted list with deep copies
	result := make([]*types.SmartAccountRecord, 0, len(owners))
	for _, owner := range owners {
		result = append(result, m.accounts[owner].Copy())
	}

	return result, nil
}

// UpdateCachedNonce stores the nonce observed on chain for a smart account.
func (m *MemoryAccountStore) UpdateCachedNonce(account common.Address, nonce *big.Int) error {
	if nonce == nil {
		return fmt.Errorf("cannot cache nil nonce - use InvalidateNonce")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("account store is closed")
	}

	record, err := m.lookupByAccount(account)
	if err != nil {
		return err
	}

	record.CachedNonce = new(big.Int).Set(nonce)
	record.UpdatedAt = time.Now().Unix()
	return nil
}

// InvalidateNonce clears the cached nonce for a smart account.
func (m *MemoryAccountStore) InvalidateNonce(account common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return fmt.Errorf("account store is closed")
	}

	owner, exists := m.ownerByAccount[account]
	if !exists {
		return nil // Nothing cached, nothing to invalidate
	}

	record, exists := m.accounts[owner]
	if !exists {
		return nil
	}

	record.CachedNonce = nil
	record.UpdatedAt = time.Now().Unix()
	return nil
}

// Close shuts down the store.
func (m *MemoryAccountStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

// HealthCheck verifies the store is operational.
func (m *MemoryAccountStore) HealthCheck() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return fmt.Errorf("account store is closed")
	}

	return nil
}

// lookupByAccount resolves a stored record through the smart-account index.
// Caller must hold the write lock.
func (m *MemoryAccountStore) lookupByAccount(account common.Address) (*types.SmartAccountRecord, error) {
	owner, exists := m.ownerByAccount[account]
	if !exists {
		return nil, fmt.Errorf("no account record for smart account %s", account.Hex())
	}

	record, exists := m.accounts[owner]
	if !exists {
		return nil, fmt.Errorf("no account record for smart account %s", account.Hex())
	}

	return record, nil
}
