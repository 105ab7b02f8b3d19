package caller

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/bindings/SmartAccount"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/bindings/SmartAccountFactory"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/transactionSigner"
	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

// FactoryContract is the slice of the SmartAccountFactory binding the caller
// uses. This allows for dependency injection and testing without requiring
// a chain.
type FactoryContract interface {
	GetSmartAccountAddress(opts *bind.CallOpts, owner common.Address, salt [32]byte) (common.Address, error)
	CreateSmartAccount(opts *bind.TransactOpts, owner common.Address, salt [32]byte) (*ethereumTypes.Transaction, error)
	ParseSmartAccountCreated(log ethereumTypes.Log) (*SmartAccountFactory.SmartAccountFactorySmartAccountCreated, error)
}

// AccountContract is the slice of the SmartAccount binding the caller uses.
type AccountContract interface {
	Owner(opts *bind.CallOpts) (common.Address, error)
	Nonce(opts *bind.CallOpts) (*big.Int, error)
	GetTransactionHash(opts *bind.CallOpts, to common.Address, value *big.Int, data []byte, nonce *big.Int) ([32]byte, error)
	GetBatchTransactionHash(opts *bind.CallOpts, to []common.Address, value []*big.Int, data [][]byte, nonce *big.Int) ([32]byte, error)
	ExecuteTransaction(opts *bind.TransactOpts, to common.Address, value *big.Int, data []byte, signature []byte) (*ethereumTypes.Transaction, error)
	ExecuteBatchTransaction(opts *bind.TransactOpts, to []common.Address, value []*big.Int, data [][]byte, signature []byte) (*ethereumTypes.Transaction, error)
	ParseTransactionExecuted(log ethereumTypes.Log) (*SmartAccount.SmartAccountTransactionExecuted, error)
}

// AccountBinder builds an AccountContract bound to the given address.
type AccountBinder func(account common.Address) (AccountContract, error)

// ChainReader is the read-only client surface used for code and balance
// lookups. *ethclient.Client satisfies it.
type ChainReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

type ContractCaller struct {
	logger      *zap.Logger
	signer      transactionSigner.ITransactionSigner
	reader      ChainReader
	factory     FactoryContract
	bindAccount AccountBinder
}

func NewContractCaller(
	ethclient *ethclient.Client,
	signer transactionSigner.ITransactionSigner,
	factoryAddress common.Address,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if ethclient == nil {
		return nil, fmt.Errorf("ethclient cannot be nil")
	}

	factory, err := SmartAccountFactory.NewSmartAccountFactory(factoryAddress, ethclient)
	if err != nil {
		return nil, fmt.Errorf("failed to create smart account factory instance: %w", err)
	}

	bindAccount := func(account common.Address) (AccountContract, error) {
		return SmartAccount.NewSmartAccount(account, ethclient)
	}

	cc, err := NewContractCallerWithContracts(factory, bindAccount, ethclient, signer, logger)
	if err != nil {
		return nil, err
	}

	logger.Sugar().Infow("Using smart account factory",
		zap.String("factoryAddress", factoryAddress.Hex()),
		zap.String("relayerAddress", signer.GetFromAddress().Hex()),
	)
	return cc, nil
}

// NewContractCallerWithContracts wires explicit contract implementations in
// place of the chain-bound bindings. Intended for tests.
func NewContractCallerWithContracts(
	factory FactoryContract,
	bindAccount AccountBinder,
	reader ChainReader,
	signer transactionSigner.ITransactionSigner,
	logger *zap.Logger,
) (*ContractCaller, error) {
	if factory == nil {
		return nil, fmt.Errorf("factory cannot be nil")
	}
	if bindAccount == nil {
		return nil, fmt.Errorf("account binder cannot be nil")
	}
	if reader == nil {
		return nil, fmt.Errorf("chain reader cannot be nil")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return &ContractCaller{
		logger:      logger,
		signer:      signer,
		reader:      reader,
		factory:     factory,
		bindAccount: bindAccount,
	}, nil
}

const (
	viewRetryAttempts = 3
	viewRetryDelay    = 200 * time.Millisecond
)

// viewWithRetry retries transient view failures. Reverts and missing-code
// errors are deterministic and returned immediately.
func viewWithRetry[T any](ctx context.Context, op func() (T, error)) (T, error) {
	return retry.DoWithData(
		op,
		retry.Context(ctx),
		retry.Attempts(viewRetryAttempts),
		retry.Delay(viewRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if _, isRevert := RevertReasonFromError(err); isRevert {
				return false
			}
			return !errors.Is(err, bind.ErrNoCode)
		}),
	)
}

func callOptsWithContext(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{
		Context: ctx,
	}
}

func (cc *ContractCaller) GetDeterministicAccountAddress(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, error) {
	address, err := viewWithRetry(ctx, func() (common.Address, error) {
		return cc.factory.GetSmartAccountAddress(callOptsWithContext(ctx), owner, salt)
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get smart account address for owner %s: %w", owner.Hex(), err)
	}
	return address, nil
}

func (cc *ContractCaller) CreateSmartAccount(ctx context.Context, owner common.Address, salt [32]byte) (common.Address, *ethereumTypes.Receipt, error) {
	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return common.Address{}, nil, fmt.Errorf("failed to build transaction options: %w", err)
	}

	tx, err := cc.factory.CreateSmartAccount(txOpts, owner, salt)
	if err != nil {
		return common.Address{}, nil, wrapExecutionError("CreateSmartAccount", err)
	}

	receipt, err := cc.signAndSendTransaction(ctx, tx, "CreateSmartAccount")
	if err != nil {
		return common.Address{}, nil, err
	}

	// The deployed address comes from the SmartAccountCreated event rather
	// than a re-derivation, so a factory upgrade cannot desync the two.
	for _, log := range receipt.Logs {
		event, err := cc.factory.ParseSmartAccountCreated(*log)
		if err != nil {
			continue
		}
		if event.Owner == owner {
			cc.logger.Sugar().Infow("Smart account created",
				zap.String("owner", owner.Hex()),
				zap.String("account", event.Account.Hex()),
				zap.Uint64("blockNumber", receipt.BlockNumber.Uint64()),
			)
			return event.Account, receipt, nil
		}
	}

	return common.Address{}, nil, fmt.Errorf("smart account creation mined but no SmartAccountCreated event found for owner %s", owner.Hex())
}

func (cc *ContractCaller) GetRelayerAddress() common.Address {
	return cc.signer.GetFromAddress()
}

func (cc *ContractCaller) GetRelayerBalance(ctx context.Context) (*big.Int, error) {
	balance, err := cc.reader.BalanceAt(ctx, cc.signer.GetFromAddress(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get relayer balance: %w", err)
	}
	return balance, nil
}
