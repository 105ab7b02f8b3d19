package transactionSigner

import (
	"context"
	"fmt"
	"math/big"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/config"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"
)

// signTxFunc signs a fully populated transaction for the relayer address.
type signTxFunc func(ctx context.Context, tx *types.Transaction) (*types.Transaction, error)

// txSender carries the machinery shared by the relayer transaction signers:
// EIP-1559 fee estimation, the relayer nonce manager, submission and the
// wait for the receipt.
type txSender struct {
	backend IEthereumBackend
	logger  *zap.Logger
	chainID *big.Int
	from    common.Address
	nonces  *nonceManager
}

func newTxSender(backend IEthereumBackend, from common.Address, logger *zap.Logger) (*txSender, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	// Get chain ID during initialization
	chainID, err := backend.ChainID(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	return &txSender{
		backend: backend,
		logger:  logger,
		chainID: chainID,
		from:    from,
		nonces:  newNonceManager(),
	}, nil
}

// GetTransactOpts returns transaction options for creating unsigned transactions
func (s *txSender) GetTransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	// The Signer function returns the transaction as-is. The actual signing
	// happens in SignAndSendTransaction once fees and the relayer nonce are
	// known.
	opts := &bind.TransactOpts{
		From:    s.from,
		Context: ctx,
		NoSend:  true,
		Signer: func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
			return tx, nil
		},
	}
	return opts, nil
}

// GetFromAddress returns the address that will be used for signing
func (s *txSender) GetFromAddress() common.Address {
	return s.from
}

// EstimateGasPriceAndLimit estimates the max fee per gas and the buffered
// gas limit for a transaction without sending it
func (s *txSender) EstimateGasPriceAndLimit(ctx context.Context, tx *types.Transaction) (*big.Int, uint64, error) {
	_, maxFeePerGas, gasLimit, err := s.estimateFees(ctx, tx)
	if err != nil {
		return nil, 0, err
	}
	return maxFeePerGas, gasLimit, nil
}

// estimateFees returns the gas tip cap, max fee per gas and buffered gas
// limit for the transaction.
func (s *txSender) estimateFees(ctx context.Context, tx *types.Transaction) (*big.Int, *big.Int, uint64, error) {
	chainId := config.ChainId(s.chainID.Uint64())

	// Estimate gas tip cap (priority fee)
	gasTipCap, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		// The backend may not support eth_maxPriorityFeePerGas; fall back
		// to the per-chain default constant.
		s.logger.Sugar().Warnw("estimateFees: cannot get gasTipCap, using fallback",
			zap.Error(err),
		)
		gasTipCap = config.GetFallbackGasTipCapForChain(chainId)
	}

	// Get the latest block header for base fee calculation
	header, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to get latest block header: %w", err)
	}
	if header.BaseFee == nil {
		return nil, nil, 0, fmt.Errorf("latest block has no base fee; chain %d is not EIP-1559", chainId)
	}

	// Max fee per gas: basefee * multiplier + tip. The per-chain multiplier
	// leaves headroom for base fee spikes between estimate and mine.
	maxFeePerGas := new(big.Int).Add(
		new(big.Int).Mul(header.BaseFee, big.NewInt(config.GetBaseFeeMultiplierForChain(chainId))),
		gasTipCap,
	)

	// Estimate gas limit with proper parameters
	gasLimit, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:      s.from,
		To:        tx.To(),
		GasTipCap: gasTipCap,
		GasFeeCap: maxFeePerGas,
		Value:     tx.Value(),
		Data:      tx.Data(),
	})
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to estimate gas: %w", err)
	}

	return gasTipCap, maxFeePerGas, addGasBuffer(gasLimit), nil
}

// sendAndAwait rebuilds the transaction with estimated fees and the reserved
// relayer nonce, signs it with sign, submits it and waits for the receipt.
func (s *txSender) sendAndAwait(ctx context.Context, tx *types.Transaction, sign signTxFunc) (*types.Receipt, error) {
	if tx.To() == nil {
		return nil, fmt.Errorf("transaction must have a to address")
	}

	gasTipCap, maxFeePerGas, gasLimit, err := s.estimateFees(ctx, tx)
	if err != nil {
		return nil, err
	}

	// The relayer nonce is a single-writer resource. The reservation is held
	// through SendTransaction so concurrent submissions cannot reuse a nonce.
	nonce, err := s.nonces.reserve(ctx, func(ctx context.Context) (uint64, error) {
		return s.backend.PendingNonceAt(ctx, s.from)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	unsigned := types.NewTx(&types.DynamicFeeTx{
		ChainID:   s.chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: maxFeePerGas,
		Gas:       gasLimit,
		To:        tx.To(),
		Value:     tx.Value(),
		Data:      tx.Data(),
	})

	signedTx, err := sign(ctx, unsigned)
	if err != nil {
		s.nonces.abandon()
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	s.logger.Info("sendAndAwait: sending transaction",
		zap.String("to", tx.To().Hex()),
		zap.String("maxPriorityFeePerGas", gasTipCap.String()),
		zap.String("maxFeePerGas", maxFeePerGas.String()),
		zap.Uint64("gasLimit", gasLimit),
		zap.Uint64("nonce", nonce),
	)

	if err := s.backend.SendTransaction(ctx, signedTx); err != nil {
		s.nonces.abandon()
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}
	s.nonces.submitted()

	s.logger.Info("sendAndAwait: transaction sent",
		zap.String("txHash", signedTx.Hash().Hex()),
	)

	// Verify the transaction is in the mempool
	_, isPending, err := s.backend.TransactionByHash(ctx, signedTx.Hash())
	if err != nil {
		s.logger.Warn("could not verify transaction in mempool",
			zap.Error(err),
			zap.String("txHash", signedTx.Hash().Hex()),
		)
	} else {
		s.logger.Info("transaction verified in mempool",
			zap.Bool("isPending", isPending),
			zap.String("txHash", signedTx.Hash().Hex()),
		)
	}

	// Wait for receipt and check status
	receipt, err := bind.WaitMined(ctx, s.backend, signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction receipt: %w", err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		s.logger.Error("sendAndAwait: transaction failed",
			zap.String("txHash", receipt.TxHash.Hex()),
			zap.Uint64("status", receipt.Status),
			zap.Uint64("gasUsed", receipt.GasUsed),
		)
		return nil, fmt.Errorf("transaction failed with status %d", receipt.Status)
	}

	s.logger.Info("sendAndAwait: transaction succeeded",
		zap.String("txHash", receipt.TxHash.Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed),
		zap.Uint64("blockNumber", receipt.BlockNumber.Uint64()),
	)

	return receipt, nil
}

// addGasBuffer pads the estimated gas limit by 20%.
func addGasBuffer(gasLimit uint64) uint64 {
	return gasLimit * 120 / 100
}
