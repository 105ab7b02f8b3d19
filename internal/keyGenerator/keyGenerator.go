package keyGenerator

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ProvisionedKey describes a relayer signing key that exists in a backend:
// an AWS KMS key or a locally generated one. Provisioning only creates and
// describes keys; signing with them is the wallet provider's and transaction
// signer's job.
type ProvisionedKey struct {
	PublicKey *ecdsa.PublicKey
	Address   common.Address
	KeyId     string
}

func (p *ProvisionedKey) GetPublicKeyBytes() ([]byte, error) {
	if p.PublicKey == nil {
		return nil, fmt.Errorf("public key is nil")
	}
	return crypto.FromECDSAPub(p.PublicKey), nil
}

func (p *ProvisionedKey) GetPublicKeyHex() (string, error) {
	pubKeyBytes, err := p.GetPublicKeyBytes()
	if err != nil {
		return "", fmt.Errorf("failed to get public key bytes: %w", err)
	}
	return hexutil.Encode(pubKeyBytes), nil
}

type IKeyGenerator interface {
	// ProvisionECDSAKey creates a new secp256k1 signing key under keyName
	// and aliasName and returns its derived relayer address.
	ProvisionECDSAKey(ctx context.Context, keyName string, aliasName string) (*ProvisionedKey, error)

	// GetECDSAKeyById describes an existing key.
	GetECDSAKeyById(ctx context.Context, keyId string) (*ProvisionedKey, error)
}
