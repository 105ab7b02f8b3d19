package transactionSigner

import (
	"context"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// KMSTransactionSigner implements ITransactionSigner on top of a wallet
// provider that can sign raw digests, such as an AWS KMS held key. KMS
// returns r || s without a recovery byte, so the signer recovers it by
// trying both candidates against the relayer address.
type KMSTransactionSigner struct {
	*txSender
	provider walletProvider.IWalletProvider
}

// NewKMSTransactionSigner creates a transaction signer backed by the given
// wallet provider.
func NewKMSTransactionSigner(provider walletProvider.IWalletProvider, backend IEthereumBackend, logger *zap.Logger) (*KMSTransactionSigner, error) {
	if provider == nil {
		return nil, fmt.Errorf("provider cannot be nil")
	}

	// Resolve the relayer address during initialization
	from, err := provider.SignerAddress(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve signer address: %w", err)
	}

	sender, err := newTxSender(backend, from, logger)
	if err != nil {
		return nil, err
	}

	return &KMSTransactionSigner{
		txSender: sender,
		provider: provider,
	}, nil
}

// SignAndSendTransaction signs a transaction and sends it to the network
func (k *KMSTransactionSigner) SignAndSendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return k.sendAndAwait(ctx, tx, k.signTx)
}

func (k *KMSTransactionSigner) signTx(ctx context.Context, unsigned *types.Transaction) (*types.Transaction, error) {
	signer := types.LatestSignerForChainID(k.chainID)
	sigHash := signer.Hash(unsigned)

	raw, err := k.provider.SignDigest(ctx, sigHash)
	if err != nil {
		return nil, err
	}

	sig := make([]byte, crypto.SignatureLength)
	copy(sig, raw)

	switch len(raw) {
	case crypto.SignatureLength:
		// Transaction signatures carry v as 0 or 1
		if sig[64] >= 27 {
			sig[64] -= 27
		}
		if !recoversToAddress(sigHash.Bytes(), sig, k.from) {
			return nil, fmt.Errorf("signature does not recover to relayer address %s", k.from.Hex())
		}
		return unsigned.WithSignature(signer, sig)
	case crypto.SignatureLength - 1:
		for _, v := range []byte{0, 1} {
			sig[64] = v
			if recoversToAddress(sigHash.Bytes(), sig, k.from) {
				return unsigned.WithSignature(signer, sig)
			}
		}
		return nil, fmt.Errorf("no recovery byte candidate matches relayer address %s", k.from.Hex())
	default:
		return nil, fmt.Errorf("provider returned %d byte signature, want 64 or 65", len(raw))
	}
}

func recoversToAddress(sigHash []byte, sig []byte, expected common.Address) bool {
	pubBytes, err := crypto.Ecrecover(sigHash, sig)
	if err != nil {
		return false
	}
	pub, err := crypto.UnmarshalPubkey(pubBytes)
	if err != nil {
		return false
	}
	return crypto.PubkeyToAddress(*pub) == expected
}
