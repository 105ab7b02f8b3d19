package localKeyGenerator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"
	"sync"

	"github.com/Gasway-Labs/gasway-relay-go/internal/keyGenerator"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// keyEntry stores both the private key and metadata for a key
type keyEntry struct {
	privateKey *ecdsa.PrivateKey
	keyName    string
	aliasName  string
	address    common.Address
}

// LocalKeyGenerator provisions relayer keys in process memory, for dev
// setups and tests where AWS KMS is not available. Unlike the KMS backend
// the private key is exportable, so it can be fed to the private_key
// relayer key source.
type LocalKeyGenerator struct {
	logger   *zap.Logger
	keyStore map[string]*keyEntry // keyId -> keyEntry
	mu       sync.RWMutex
}

func NewLocalKeyGenerator(logger *zap.Logger) *LocalKeyGenerator {
	return &LocalKeyGenerator{
		logger:   logger,
		keyStore: make(map[string]*keyEntry),
	}
}

func (l *LocalKeyGenerator) ProvisionECDSAKey(ctx context.Context, keyName string, aliasName string) (*keyGenerator.ProvisionedKey, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key: %w", err)
	}

	keyId := fmt.Sprintf("local-key-%s", uuid.New().String())
	address := crypto.PubkeyToAddress(privateKey.PublicKey)

	l.mu.Lock()
	l.keyStore[keyId] = &keyEntry{
		privateKey: privateKey,
		keyName:    keyName,
		aliasName:  aliasName,
		address:    address,
	}
	l.mu.Unlock()

	l.logger.Info("Generated local ECDSA key",
		zap.String("keyName", keyName),
		zap.String("aliasName", aliasName),
		zap.String("keyId", keyId),
		zap.String("address", address.Hex()),
	)

	return &keyGenerator.ProvisionedKey{
		PublicKey: &privateKey.PublicKey,
		Address:   address,
		KeyId:     keyId,
	}, nil
}

func (l *LocalKeyGenerator) GetECDSAKeyById(ctx context.Context, keyId string) (*keyGenerator.ProvisionedKey, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("key with ID %s not found", keyId)
	}

	return &keyGenerator.ProvisionedKey{
		PublicKey: &entry.privateKey.PublicKey,
		Address:   entry.address,
		KeyId:     keyId,
	}, nil
}

// ExportPrivateKeyHex returns the raw private key hex for a provisioned key,
// the form the private_key relayer source consumes. The KMS backend has no
// equivalent.
func (l *LocalKeyGenerator) ExportPrivateKeyHex(keyId string) (string, error) {
	l.mu.RLock()
	entry, exists := l.keyStore[keyId]
	l.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("key with ID %s not found", keyId)
	}
	return hexutil.Encode(crypto.FromECDSA(entry.privateKey))[2:], nil
}

// LoadPrivateKey loads a pre-existing private key into the key store.
// This is useful for testing when you need to use a specific key.
func (l *LocalKeyGenerator) LoadPrivateKey(keyId string, privateKey *ecdsa.PrivateKey, keyName string, aliasName string) error {
	if privateKey == nil {
		return fmt.Errorf("private key cannot be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.keyStore[keyId]; exists {
		return fmt.Errorf("key with ID %s already exists", keyId)
	}

	l.keyStore[keyId] = &keyEntry{
		privateKey: privateKey,
		keyName:    keyName,
		aliasName:  aliasName,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}

	return nil
}

// LoadPrivateKeyFromHex loads a private key from a hex string into the key
// store. The hex string can optionally start with "0x".
func (l *LocalKeyGenerator) LoadPrivateKeyFromHex(keyId string, privateKeyHex string, keyName string, aliasName string) error {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return fmt.Errorf("failed to parse private key from hex: %w", err)
	}

	return l.LoadPrivateKey(keyId, privateKey, keyName, aliasName)
}

// GetKeyCount returns the number of keys in the store.
func (l *LocalKeyGenerator) GetKeyCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.keyStore)
}

// KeyExists checks if a key with the given ID exists in the store.
func (l *LocalKeyGenerator) KeyExists(keyId string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.keyStore[keyId]
	return exists
}

// ClearKeys removes all keys from the store.
func (l *LocalKeyGenerator) ClearKeys() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keyStore = make(map[string]*keyEntry)
}
