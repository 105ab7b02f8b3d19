package contractCaller

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	_ IContractCaller = (*MockContractCallerStub)(nil)
	_ IContractCaller = (*TestableContractCaller)(nil)
)

// MockContractCallerStub provides a minimal stub implementation of
// IContractCaller for testing
type MockContractCallerStub struct{}

func (m *MockContractCallerStub) GetDeterministicAccountAddress(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, error) {
	return common.Address{}, nil
}

func (m *MockContractCallerStub) CreateSmartAccount(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, *ethereumTypes.Receipt, error) {
	return common.Address{}, &ethereumTypes.Receipt{Status: 1}, nil
}

func (m *MockContractCallerStub) GetAccountOwner(ctx context.Context, account common.Address) (common.Address, error) {
	return common.Address{}, nil
}

func (m *MockContractCallerStub) GetAccountNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (m *MockContractCallerStub) GetTransactionHash(ctx context.Context, account common.Address, call types.Call, nonce *big.Int) ([32]byte, error) {
	return [32]byte{}, nil
}

func (m *MockContractCallerStub) GetBatchTransactionHash(ctx context.Context, account common.Address, calls []types.Call, nonce *big.Int) ([32]byte, error) {
	return [32]byte{}, nil
}

func (m *MockContractCallerStub) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	return false, nil
}

func (m *MockContractCallerStub) ExecuteTransaction(ctx context.Context, account common.Address, call types.Call, signature []byte) (*ethereumTypes.Receipt, error) {
	return &ethereumTypes.Receipt{Status: 1}, nil
}

func (m *MockContractCallerStub) ExecuteBatchTransaction(ctx context.Context, account common.Address, calls []types.Call, signature []byte) (*ethereumTypes.Receipt, error) {
	return &ethereumTypes.Receipt{Status: 1}, nil
}

func (m *MockContractCallerStub) ExecutedNonceFromReceipt(account common.Address, receipt *ethereumTypes.Receipt) (*big.Int, bool) {
	return nil, false
}

func (m *MockContractCallerStub) GetRelayerAddress() common.Address {
	return common.Address{}
}

func (m *MockContractCallerStub) GetRelayerBalance(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

// ExecutionRecord captures one relayed execution accepted by the testable
// caller.
type ExecutionRecord struct {
	Account   common.Address
	Calls     []types.Call
	Signature []byte
	Batch     bool
}

// TestableContractCaller is an in-memory chain for relay tests: accounts are
// deployed on demand, nonces advance on execution, and the hash views agree
// with the local digest computation unless HashMismatch forces disagreement.
type TestableContractCaller struct {
	mu sync.RWMutex

	factory common.Address
	relayer common.Address

	owners   map[common.Address]common.Address
	nonces   map[common.Address]*big.Int
	deployed map[common.Address]bool

	Executions []ExecutionRecord
	Creates    int

	RelayerBalance *big.Int

	// Fault injection
	CreateErr    error
	ExecuteErr   error
	ViewErr      error
	HashMismatch bool

	// CreateDelay stalls CreateSmartAccount to widen race windows in
	// serialization tests.
	CreateDelay time.Duration
}

func NewTestableContractCaller() *TestableContractCaller {
	return &TestableContractCaller{
		factory:        common.HexToAddress("0x00000000000000000000000000000000000000fa"),
		relayer:        common.HexToAddress("0x00000000000000000000000000000000000000ee"),
		owners:         make(map[common.Address]common.Address),
		nonces:         make(map[common.Address]*big.Int),
		deployed:       make(map[common.Address]bool),
		RelayerBalance: big.NewInt(1_000_000_000_000_000_000),
	}
}

// DeriveAccountAddress is the deterministic owner-to-account mapping the
// testable factory uses.
func (m *TestableContractCaller) DeriveAccountAddress(owner common.Address, salt [32]byte) common.Address {
	return common.BytesToAddress(crypto.Keccak256(owner.Bytes(), salt[:])[12:])
}

// SetAccount seeds a deployed account with the given owner and nonce.
func (m *TestableContractCaller) SetAccount(account common.Address, owner common.Address, nonce int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[account] = owner
	m.nonces[account] = big.NewInt(nonce)
	m.deployed[account] = true
}

// AdvanceNonce bumps an account nonce out from under the caller, simulating
// a competing execution.
func (m *TestableContractCaller) AdvanceNonce(account common.Address) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if nonce, ok := m.nonces[account]; ok {
		m.nonces[account] = new(big.Int).Add(nonce, big.NewInt(1))
	}
}

func (m *TestableContractCaller) GetDeterministicAccountAddress(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, error) {
	if m.ViewErr != nil {
		return common.Address{}, m.ViewErr
	}
	return m.DeriveAccountAddress(owner, salt), nil
}

func (m *TestableContractCaller) CreateSmartAccount(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, *ethereumTypes.Receipt, error) {
	if m.CreateErr != nil {
		return common.Address{}, nil, m.CreateErr
	}
	if m.CreateDelay > 0 {
		select {
		case <-time.After(m.CreateDelay):
		case <-ctx.Done():
			return common.Address{}, nil, ctx.Err()
		}
	}
	account := m.DeriveAccountAddress(owner, salt)
	m.SetAccount(account, owner, 0)
	m.mu.Lock()
	m.Creates++
	m.mu.Unlock()
	return account, &ethereumTypes.Receipt{Status: 1, BlockNumber: big.NewInt(1)}, nil
}

func (m *TestableContractCaller) GetAccountOwner(ctx context.Context, account common.Address) (common.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ViewErr != nil {
		return common.Address{}, m.ViewErr
	}
	if !m.deployed[account] {
		return common.Address{}, fmt.Errorf("no contract code at given address")
	}
	return m.owners[account], nil
}

func (m *TestableContractCaller) GetAccountNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ViewErr != nil {
		return nil, m.ViewErr
	}
	if !m.deployed[account] {
		return nil, fmt.Errorf("no contract code at given address")
	}
	return new(big.Int).Set(m.nonces[account]), nil
}

func (m *TestableContractCaller) GetTransactionHash(ctx context.Context, account common.Address, call types.Call, nonce *big.Int) ([32]byte, error) {
	if m.ViewErr != nil {
		return [32]byte{}, m.ViewErr
	}
	hash := digest.SingleCallDigest(account, call, nonce)
	if m.HashMismatch {
		hash[0] ^= 0xff
	}
	return hash, nil
}

func (m *TestableContractCaller) GetBatchTransactionHash(ctx context.Context, account common.Address, calls []types.Call, nonce *big.Int) ([32]byte, error) {
	if m.ViewErr != nil {
		return [32]byte{}, m.ViewErr
	}
	hash := digest.BatchCallDigest(account, calls, nonce)
	if m.HashMismatch {
		hash[0] ^= 0xff
	}
	return hash, nil
}

func (m *TestableContractCaller) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ViewErr != nil {
		return false, m.ViewErr
	}
	return m.deployed[account], nil
}

func (m *TestableContractCaller) ExecuteTransaction(ctx context.Context, account common.Address, call types.Call, signature []byte) (*ethereumTypes.Receipt, error) {
	return m.execute(account, []types.Call{call}, signature, false)
}

func (m *TestableContractCaller) ExecuteBatchTransaction(ctx context.Context, account common.Address, calls []types.Call, signature []byte) (*ethereumTypes.Receipt, error) {
	return m.execute(account, calls, signature, true)
}

func (m *TestableContractCaller) execute(account common.Address, calls []types.Call, signature []byte, batch bool) (*ethereumTypes.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExecuteErr != nil {
		return nil, m.ExecuteErr
	}
	if !m.deployed[account] {
		return nil, fmt.Errorf("no contract code at given address")
	}

	m.Executions = append(m.Executions, ExecutionRecord{
		Account:   account,
		Calls:     calls,
		Signature: signature,
		Batch:     batch,
	})
	m.nonces[account] = new(big.Int).Add(m.nonces[account], big.NewInt(1))

	return &ethereumTypes.Receipt{
		Status:      1,
		TxHash:      crypto.Keccak256Hash(signature),
		GasUsed:     60_000,
		BlockNumber: big.NewInt(int64(len(m.Executions))),
	}, nil
}

func (m *TestableContractCaller) ExecutedNonceFromReceipt(account common.Address, receipt *ethereumTypes.Receipt) (*big.Int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	nonce, ok := m.nonces[account]
	if !ok {
		return nil, false
	}
	// The recorded nonce already advanced past the executed one.
	return new(big.Int).Sub(nonce, big.NewInt(1)), true
}

func (m *TestableContractCaller) GetRelayerAddress() common.Address {
	return m.relayer
}

func (m *TestableContractCaller) GetRelayerBalance(ctx context.Context) (*big.Int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return new(big.Int).Set(m.RelayerBalance), nil
}
