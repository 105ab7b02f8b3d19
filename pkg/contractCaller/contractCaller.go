package contractCaller

import (
	"context"
	"math/big"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
)

type IContractCaller interface {
	// GetDeterministicAccountAddress returns the address the factory would
	// deploy for (owner, salt), whether or not it exists yet
	GetDeterministicAccountAddress(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, error)

	// CreateSmartAccount deploys the smart account for (owner, salt) and
	// returns the deployed address parsed from the SmartAccountCreated event
	CreateSmartAccount(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, *ethereumTypes.Receipt, error)

	// Smart-account views
	GetAccountOwner(ctx context.Context, account common.Address) (common.Address, error)

	GetAccountNonce(ctx context.Context, account common.Address) (*big.Int, error)

	GetTransactionHash(ctx context.Context, account common.Address, call types.Call, nonce *big.Int) ([32]byte, error)

	GetBatchTransactionHash(ctx context.Context, account common.Address, calls []types.Call, nonce *big.Int) ([32]byte, error)

	// IsDeployed reports whether the account has contract code
	IsDeployed(ctx context.Context, account common.Address) (bool, error)

	// ExecuteTransaction relays a single signed call through the smart account
	ExecuteTransaction(ctx context.Context, account common.Address, call types.Call, signature []byte) (*ethereumTypes.Receipt, error)

	// ExecuteBatchTransaction relays an atomic batch of signed calls
	ExecuteBatchTransaction(ctx context.Context, account common.Address, calls []types.Call, signature []byte) (*ethereumTypes.Receipt, error)

	// ExecutedNonceFromReceipt returns the account nonce consumed by an
	// execution, read from the TransactionExecuted event
	ExecutedNonceFromReceipt(account common.Address, receipt *ethereumTypes.Receipt) (*big.Int, bool)

	// Relayer account
	GetRelayerAddress() common.Address

	GetRelayerBalance(ctx context.Context) (*big.Int, error)
}
