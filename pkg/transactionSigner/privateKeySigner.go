package transactionSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// PrivateKeySigner implements ITransactionSigner with a relayer key held in
// process memory.
type PrivateKeySigner struct {
	*txSender
	privateKey *ecdsa.PrivateKey
}

// NewPrivateKeySigner creates a transaction signer from a hex encoded private
// key, with or without the 0x prefix.
func NewPrivateKeySigner(privateKeyHex string, backend IEthereumBackend, logger *zap.Logger) (*PrivateKeySigner, error) {
	if privateKeyHex == "" {
		return nil, fmt.Errorf("private key cannot be empty")
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	sender, err := newTxSender(backend, crypto.PubkeyToAddress(privateKey.PublicKey), logger)
	if err != nil {
		return nil, err
	}

	return &PrivateKeySigner{
		txSender:   sender,
		privateKey: privateKey,
	}, nil
}

// SignAndSendTransaction signs a transaction and sends it to the network
func (p *PrivateKeySigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return p.sendAndAwait(ctx, tx, func(ctx context.Context, unsigned *types.Transaction) (*types.Transaction, error) {
		return types.SignTx(unsigned, types.LatestSignerForChainID(p.chainID), p.privateKey)
	})
}
