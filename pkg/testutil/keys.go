package testutil

import (
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// devKeys are the first five well-known anvil development keys. They hold no
// real funds; tests use them so owner addresses stay stable across runs.
var devKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
	"7c852118294e51e653712a81e05800f419141751be58f605c371e15141b007a6",
	"47e179ec197488593b187f80a00eb0da91f1b9d0b13f8733639f19c30a34926a",
}

// DevKey returns a deterministic development private key. At most five are
// available.
func DevKey(t *testing.T, i int) *ecdsa.PrivateKey {
	if i < 0 || i >= len(devKeys) {
		t.Fatalf("dev key index %d out of range (have %d)", i, len(devKeys))
	}
	key, err := crypto.HexToECDSA(devKeys[i])
	if err != nil {
		t.Fatalf("failed to parse dev key %d: %v", i, err)
	}
	return key
}

// DevOwner returns a deterministic development key with its address.
func DevOwner(t *testing.T, i int) (*ecdsa.PrivateKey, common.Address) {
	key := DevKey(t, i)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}
