package caller

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethereumTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

func (cc *ContractCaller) buildTransactionOpts(ctx context.Context) (*bind.TransactOpts, error) {
	return cc.signer.GetTransactOpts(ctx)
}

func (cc *ContractCaller) signAndSendTransaction(ctx context.Context, tx *ethereumTypes.Transaction, operation string) (*ethereumTypes.Receipt, error) {
	cc.logger.Sugar().Infow("Signing and sending transaction",
		zap.String("operation", operation),
		zap.String("from", cc.signer.GetFromAddress().Hex()),
		zap.String("to", tx.To().Hex()),
	)

	receipt, err := cc.signer.SignAndSendTransaction(ctx, tx)
	if err != nil {
		return nil, wrapExecutionError(operation, err)
	}
	return receipt, nil
}

// wrapExecutionError turns an RPC error carrying revert data into a typed
// execution failure with the chain's reason verbatim. Other errors pass
// through wrapped.
func wrapExecutionError(operation string, err error) error {
	if reason, ok := RevertReasonFromError(err); ok {
		return types.NewExecutionRevertedError(operation, reason, err)
	}
	return fmt.Errorf("%s failed: %w", operation, err)
}

// RevertReasonFromError extracts the revert reason from an RPC error, if
// present. The reason is ABI-decoded when the revert data is an
// Error(string); otherwise the raw hex data is returned.
func RevertReasonFromError(err error) (string, bool) {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return "", false
	}

	data, ok := dataErr.ErrorData().(string)
	if !ok || data == "" || data == "0x" {
		return "", false
	}

	decoded, decodeErr := hexutil.Decode(data)
	if decodeErr != nil {
		return "", false
	}

	reason, unpackErr := abi.UnpackRevert(decoded)
	if unpackErr != nil {
		return data, true
	}
	return reason, true
}
