package caller

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/common"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

func (cc *ContractCaller) GetAccountOwner(ctx context.Context, account common.Address) (common.Address, error) {
	contract, err := cc.bindAccount(account)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	owner, err := viewWithRetry(ctx, func() (common.Address, error) {
		return contract.Owner(callOptsWithContext(ctx))
	})
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get owner of account %s: %w", account.Hex(), err)
	}
	return owner, nil
}

func (cc *ContractCaller) GetAccountNonce(ctx context.Context, account common.Address) (*big.Int, error) {
	contract, err := cc.bindAccount(account)
	if err != nil {
		return nil, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	nonce, err := viewWithRetry(ctx, func() (*big.Int, error) {
		return contract.Nonce(callOptsWithContext(ctx))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce of account %s: %w", account.Hex(), err)
	}
	return nonce, nil
}

func (cc *ContractCaller) GetTransactionHash(ctx context.Context, account common.Address, call types.Call, nonce *big.Int) ([32]byte, error) {
	contract, err := cc.bindAccount(account)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	hash, err := viewWithRetry(ctx, func() ([32]byte, error) {
		return contract.GetTransactionHash(callOptsWithContext(ctx), call.To, valueOrZero(call.Value), call.Data, nonce)
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to get transaction hash from account %s: %w", account.Hex(), err)
	}
	return hash, nil
}

func (cc *ContractCaller) GetBatchTransactionHash(ctx context.Context, account common.Address, calls []types.Call, nonce *big.Int) ([32]byte, error) {
	contract, err := cc.bindAccount(account)
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	tos, values, datas := splitCalls(calls)
	hash, err := viewWithRetry(ctx, func() ([32]byte, error) {
		return contract.GetBatchTransactionHash(callOptsWithContext(ctx), tos, values, datas, nonce)
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("failed to get batch transaction hash from account %s: %w", account.Hex(), err)
	}
	return hash, nil
}

// IsDeployed reports whether the account has contract code.
func (cc *ContractCaller) IsDeployed(ctx context.Context, account common.Address) (bool, error) {
	code, err := viewWithRetry(ctx, func() ([]byte, error) {
		return cc.reader.CodeAt(ctx, account, nil)
	})
	if err != nil {
		return false, fmt.Errorf("failed to get code of account %s: %w", account.Hex(), err)
	}
	return len(code) > 0, nil
}

func (cc *ContractCaller) ExecuteTransaction(
	ctx context.Context,
	account common.Address,
	call types.Call,
	signature []byte,
) (*ethereumTypes.Receipt, error) {
	cc.logger.Sugar().Infow("Executing transaction through smart account",
		zap.String("account", account.Hex()),
		zap.String("to", call.To.Hex()),
		zap.String("value", valueOrZero(call.Value).String()),
	)

	contract, err := cc.bindAccount(account)
	if err != nil {
		return nil, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction options: %w", err)
	}

	tx, err := contract.ExecuteTransaction(txOpts, call.To, valueOrZero(call.Value), call.Data, signature)
	if err != nil {
		return nil, wrapExecutionError("ExecuteTransaction", err)
	}

	return cc.signAndSendTransaction(ctx, tx, "ExecuteTransaction")
}

func (cc *ContractCaller) ExecuteBatchTransaction(
	ctx context.Context,
	account common.Address,
	calls []types.Call,
	signature []byte,
) (*ethereumTypes.Receipt, error) {
	cc.logger.Sugar().Infow("Executing batch transaction through smart account",
		zap.String("account", account.Hex()),
		zap.Int("calls", len(calls)),
	)

	contract, err := cc.bindAccount(account)
	if err != nil {
		return nil, fmt.Errorf("failed to create smart account instance for %s: %w", account.Hex(), err)
	}

	txOpts, err := cc.buildTransactionOpts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction options: %w", err)
	}

	tos, values, datas := splitCalls(calls)
	tx, err := contract.ExecuteBatchTransaction(txOpts, tos, values, datas, signature)
	if err != nil {
		return nil, wrapExecutionError("ExecuteBatchTransaction", err)
	}

	return cc.signAndSendTransaction(ctx, tx, "ExecuteBatchTransaction")
}

// ExecutedNonceFromReceipt returns the account nonce consumed by an
// execution, read from the TransactionExecuted event.
func (cc *ContractCaller) ExecutedNonceFromReceipt(account common.Address, receipt *ethereumTypes.Receipt) (*big.Int, bool) {
	contract, err := cc.bindAccount(account)
	if err != nil {
		return nil, false
	}

	for _, log := range receipt.Logs {
		if log.Address != account {
			continue
		}
		event, err := contract.ParseTransactionExecuted(*log)
		if err != nil {
			continue
		}
		return event.Nonce, true
	}
	return nil, false
}

func splitCalls(calls []types.Call) ([]common.Address, []*big.Int, [][]byte) {
	tos := make([]common.Address, len(calls))
	values := make([]*big.Int, len(calls))
	datas := make([][]byte, len(calls))
	for i, call := range calls {
		tos[i] = call.To
		values[i] = valueOrZero(call.Value)
		datas[i] = call.Data
	}
	return tos, values, datas
}

func valueOrZero(value *big.Int) *big.Int {
	if value == nil {
		return new(big.Int)
	}
	return value
}
