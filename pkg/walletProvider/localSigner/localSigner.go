package localSigner

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// LocalSigner signs with an in-process secp256k1 key. It supports every
// primitive, and can be restricted to a subset to mirror the capabilities of
// a narrower wallet.
type LocalSigner struct {
	logger     *zap.Logger
	privateKey *ecdsa.PrivateKey
	address    common.Address
	enabled    map[types.SigningScheme]bool
}

type LocalSignerConfig struct {
	PrivateKey *ecdsa.PrivateKey
	// EnabledSchemes restricts which entry points answer; the rest return
	// ErrPrimitiveUnsupported. Empty enables all four.
	EnabledSchemes []types.SigningScheme
	Logger         *zap.Logger
}

func NewLocalSigner(cfg *LocalSignerConfig) (*LocalSigner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.PrivateKey == nil {
		return nil, fmt.Errorf("private key is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	schemes := cfg.EnabledSchemes
	if len(schemes) == 0 {
		schemes = types.AllSigningSchemes()
	}
	enabled := make(map[types.SigningScheme]bool, len(schemes))
	for _, scheme := range schemes {
		if !scheme.Valid() {
			return nil, fmt.Errorf("unknown signing scheme %q", scheme)
		}
		enabled[scheme] = true
	}

	return &LocalSigner{
		logger:     cfg.Logger,
		privateKey: cfg.PrivateKey,
		address:    crypto.PubkeyToAddress(cfg.PrivateKey.PublicKey),
		enabled:    enabled,
	}, nil
}

// NewLocalSignerFromHex parses a hex-encoded private key, with or without the
// 0x prefix.
func NewLocalSignerFromHex(privateKeyHex string, logger *zap.Logger) (*LocalSigner, error) {
	if len(privateKeyHex) >= 2 && privateKeyHex[:2] == "0x" {
		privateKeyHex = privateKeyHex[2:]
	}
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse private key")
	}
	return NewLocalSigner(&LocalSignerConfig{PrivateKey: privateKey, Logger: logger})
}

func (l *LocalSigner) SignerAddress(ctx context.Context) (common.Address, error) {
	return l.address, nil
}

func (l *LocalSigner) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	return l.sign(ctx, types.SchemeRawHash, digest.Bytes())
}

func (l *LocalSigner) SignPersonalMessage(ctx context.Context, digest common.Hash) ([]byte, error) {
	return l.sign(ctx, types.SchemePersonalSign, accounts.TextHash(digest.Bytes()))
}

func (l *LocalSigner) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if !l.enabled[types.SchemeTypedDataV4] {
		return nil, walletProvider.ErrPrimitiveUnsupported
	}
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, errors.Wrap(err, "failed to hash typed data")
	}
	return l.sign(ctx, types.SchemeTypedDataV4, hash)
}

func (l *LocalSigner) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return l.sign(ctx, types.SchemePrefixedMessage, accounts.TextHash(message))
}

func (l *LocalSigner) sign(ctx context.Context, scheme types.SigningScheme, hash []byte) ([]byte, error) {
	if !l.enabled[scheme] {
		return nil, walletProvider.ErrPrimitiveUnsupported
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signature, err := crypto.Sign(hash, l.privateKey)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to sign under scheme %s", scheme)
	}

	l.logger.Debug("Signed hash with local key",
		zap.String("scheme", string(scheme)),
		zap.String("signer", l.address.Hex()),
	)
	return signature, nil
}
