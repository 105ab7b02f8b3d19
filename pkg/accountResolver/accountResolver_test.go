package accountResolver

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/accountStore/memory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/contractCaller"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/logger"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ IAccountResolver = (*SmartAccountResolver)(nil)

func newTestResolver(t *testing.T, caller contractCaller.IContractCaller, store accountStore.IAccountStore) *SmartAccountResolver {
	t.Helper()

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	resolver, err := NewSmartAccountResolver(caller, store, 2*time.Second, testLogger)
	require.NoError(t, err)
	return resolver
}

func TestSaltForOwner_Deterministic(t *testing.T) {
	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	other := common.HexToAddress("0x2222222222222222222222222222222222222222")

	salt := SaltForOwner(owner)
	assert.Equal(t, salt, SaltForOwner(owner))
	assert.NotEqual(t, salt, SaltForOwner(other))

	// The factory contract derives the salt the same way, so the mapping is
	// pinned to keccak256 of the raw owner bytes.
	assert.Equal(t, [32]byte(crypto.Keccak256Hash(owner.Bytes())), salt)
}

func TestSmartAccountResolver_Validation(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	_, err := NewSmartAccountResolver(nil, store, time.Second, testLogger)
	assert.Error(t, err)

	_, err = NewSmartAccountResolver(caller, nil, time.Second, testLogger)
	assert.Error(t, err)

	_, err = NewSmartAccountResolver(caller, store, 0, testLogger)
	assert.Error(t, err)

	_, err = NewSmartAccountResolver(caller, store, time.Second, nil)
	assert.Error(t, err)
}

func TestSmartAccountResolver_DeploysOnFirstResolve(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()
	resolver := newTestResolver(t, caller, store)

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	record, err := resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, owner, record.Owner)
	assert.True(t, record.Deployed)
	assert.Equal(t, caller.DeriveAccountAddress(owner, SaltForOwner(owner)), record.SmartAccount)
	assert.Equal(t, 1, caller.Creates)

	// The record is persisted for subsequent fast-path lookups.
	stored, err := store.GetAccount(owner)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, record.SmartAccount, stored.SmartAccount)
	assert.True(t, stored.Deployed)
}

func TestSmartAccountResolver_SecondResolveUsesStore(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()
	resolver := newTestResolver(t, caller, store)

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	first, err := resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)

	second, err := resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)

	assert.Equal(t, first.SmartAccount, second.SmartAccount)
	assert.Equal(t, 1, caller.Creates)
}

func TestSmartAccountResolver_AdoptsExistingDeployment(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	store := memory.NewMemoryAccountStore()
	resolver := newTestResolver(t, caller, store)

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")
	account := caller.DeriveAccountAddress(owner, SaltForOwner(owner))
	caller.SetAccount(account, owner, 0)

	record, err := resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, record)

	assert.Equal(t, account, record.SmartAccount)
	assert.True(t, record.Deployed)
	assert.Zero(t, caller.Creates)

	// Adopted deployments are cached like fresh ones.
	stored, err := store.GetAccount(owner)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestSmartAccountResolver_ViewFailure(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	caller.ViewErr = errors.New("connection refused")
	resolver := newTestResolver(t, caller, memory.NewMemoryAccountStore())

	record, err := resolver.Resolve(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Equal(t, types.KindResolution, types.KindOf(err))
	assert.True(t, types.IsRetryable(err))
}

func TestSmartAccountResolver_DeployFailure(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	caller.CreateErr = errors.New("insufficient funds for gas * price + value")
	resolver := newTestResolver(t, caller, memory.NewMemoryAccountStore())

	record, err := resolver.Resolve(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Equal(t, types.KindResolution, types.KindOf(err))
	assert.True(t, types.IsRetryable(err))
}

func TestSmartAccountResolver_DeployTimeout(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	caller.CreateDelay = 200 * time.Millisecond

	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	resolver, err := NewSmartAccountResolver(caller, memory.NewMemoryAccountStore(), 20*time.Millisecond, testLogger)
	require.NoError(t, err)

	record, err := resolver.Resolve(context.Background(), common.HexToAddress("0x1111111111111111111111111111111111111111"))
	require.Error(t, err)
	assert.Nil(t, record)

	// The deployment may still confirm, so the failure is a timeout and the
	// caller must re-query instead of blindly retrying.
	assert.Equal(t, types.KindTimeout, types.KindOf(err))
	assert.False(t, types.IsRetryable(err))
}

func TestSmartAccountResolver_ZeroOwnerRejected(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	resolver := newTestResolver(t, caller, memory.NewMemoryAccountStore())

	record, err := resolver.Resolve(context.Background(), common.Address{})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Empty(t, types.KindOf(err))
	assert.Zero(t, caller.Creates)
}

func TestSmartAccountResolver_StoreFailureFallsBackToChain(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	store := &faultyAccountStore{}
	resolver := newTestResolver(t, caller, store)

	owner := common.HexToAddress("0x1111111111111111111111111111111111111111")

	record, err := resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.Deployed)
	assert.Equal(t, 1, caller.Creates)
	assert.Equal(t, 1, store.saves)

	// With the store down the second resolve re-derives everything from the
	// chain and sees the account already deployed.
	record, err = resolver.Resolve(context.Background(), owner)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, caller.Creates)
}

func TestSmartAccountResolver_ConcurrentResolvesDeployOnce(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	caller.CreateDelay = 20 * time.Millisecond
	store := memory.NewMemoryAccountStore()
	resolver := newTestResolver(t, caller, store)

	owner := common.HexToAddress("0x3333333333333333333333333333333333333333")

	const resolvers = 8
	var wg sync.WaitGroup
	records := make([]*types.SmartAccountRecord, resolvers)
	errs := make([]error, resolvers)

	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			records[idx], errs[idx] = resolver.Resolve(context.Background(), owner)
		}(i)
	}
	wg.Wait()

	expected := caller.DeriveAccountAddress(owner, SaltForOwner(owner))
	for i := 0; i < resolvers; i++ {
		require.NoError(t, errs[i])
		require.NotNil(t, records[i])
		assert.Equal(t, expected, records[i].SmartAccount)
	}
	assert.Equal(t, 1, caller.Creates)
}

func TestSmartAccountResolver_DistinctOwnersResolveIndependently(t *testing.T) {
	caller := contractCaller.NewTestableContractCaller()
	caller.CreateDelay = 10 * time.Millisecond
	store := memory.NewMemoryAccountStore()
	resolver := newTestResolver(t, caller, store)

	owners := []common.Address{
		common.HexToAddress("0x1111111111111111111111111111111111111111"),
		common.HexToAddress("0x2222222222222222222222222222222222222222"),
	}

	var wg sync.WaitGroup
	records := make([]*types.SmartAccountRecord, len(owners))
	errs := make([]error, len(owners))

	for i, owner := range owners {
		wg.Add(1)
		go func(idx int, owner common.Address) {
			defer wg.Done()
			records[idx], errs[idx] = resolver.Resolve(context.Background(), owner)
		}(i, owner)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, records[0].SmartAccount, records[1].SmartAccount)
	assert.Equal(t, 2, caller.Creates)
}

func TestOwnerLocks_SerializesSameOwner(t *testing.T) {
	locks := newOwnerLocks()
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	const holders = 16
	var wg sync.WaitGroup
	var inside int32

	for i := 0; i < holders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(owner)
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			assert.EqualValues(t, 1, n)
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	// All holders released, so the entry is gone.
	locks.mu.Lock()
	assert.Empty(t, locks.entries)
	locks.mu.Unlock()
}

func TestOwnerLocks_EntryRemovedWhenReleased(t *testing.T) {
	locks := newOwnerLocks()
	owner := common.HexToAddress("0x4444444444444444444444444444444444444444")

	unlock := locks.lock(owner)
	locks.mu.Lock()
	assert.Len(t, locks.entries, 1)
	locks.mu.Unlock()

	unlock()
	locks.mu.Lock()
	assert.Empty(t, locks.entries)
	locks.mu.Unlock()
}

// faultyAccountStore fails every operation, standing in for an unreachable
// backend.
type faultyAccountStore struct {
	saves int
}

var _ accountStore.IAccountStore = (*faultyAccountStore)(nil)

func (f *faultyAccountStore) SaveAccount(record *types.SmartAccountRecord) error {
	f.saves++
	return fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) GetAccount(owner common.Address) (*types.SmartAccountRecord, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) GetAccountBySmartAccount(account common.Address) (*types.SmartAccountRecord, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) ListAccounts() ([]*types.SmartAccountRecord, error) {
	return nil, fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) UpdateCachedNonce(account common.Address, nonce *big.Int) error {
	return fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) InvalidateNonce(account common.Address) error {
	return fmt.Errorf("store unavailable")
}

func (f *faultyAccountStore) Close() error { return nil }

func (f *faultyAccountStore) HealthCheck() error { return fmt.Errorf("store unavailable") }
