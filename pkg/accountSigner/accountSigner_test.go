package accountSigner

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// scriptedProvider signs with a local key but lets each entry point be
// forced to fail, and can truncate signatures to 64 bytes the way backends
// without a recovery id do.
type scriptedProvider struct {
	key      *ecdsa.PrivateKey
	claimed  *common.Address
	truncate bool

	failRaw      error
	failPersonal error
	failTyped    error
	failMessage  error
}

func (p *scriptedProvider) SignerAddress(ctx context.Context) (common.Address, error) {
	if p.claimed != nil {
		return *p.claimed, nil
	}
	return crypto.PubkeyToAddress(p.key.PublicKey), nil
}

func (p *scriptedProvider) SignDigest(ctx context.Context, digest common.Hash) ([]byte, error) {
	if p.failRaw != nil {
		return nil, p.failRaw
	}
	return p.sign(digest.Bytes())
}

func (p *scriptedProvider) SignPersonalMessage(ctx context.Context, digest common.Hash) ([]byte, error) {
	if p.failPersonal != nil {
		return nil, p.failPersonal
	}
	return p.sign(accounts.TextHash(digest.Bytes()))
}

func (p *scriptedProvider) SignTypedData(ctx context.Context, typedData apitypes.TypedData) ([]byte, error) {
	if p.failTyped != nil {
		return nil, p.failTyped
	}
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, err
	}
	return p.sign(hash)
}

func (p *scriptedProvider) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	if p.failMessage != nil {
		return nil, p.failMessage
	}
	return p.sign(accounts.TextHash(message))
}

func (p *scriptedProvider) sign(hash []byte) ([]byte, error) {
	signature, err := crypto.Sign(hash, p.key)
	if err != nil {
		return nil, err
	}
	if p.truncate {
		return signature[:64], nil
	}
	return signature, nil
}

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key
}

func newTestPayload(t *testing.T) *types.SigningPayload {
	t.Helper()
	payload, err := digest.BuildPayload(
		big.NewInt(31337),
		common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		types.CallBatch{{To: common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"), Data: []byte{0xde, 0xad, 0xbe, 0xef}}},
		big.NewInt(5),
	)
	require.NoError(t, err)
	return payload
}

func newAcquirer(t *testing.T, provider walletProvider.IWalletProvider) *Acquirer {
	t.Helper()
	acquirer, err := NewAcquirer(&AcquirerConfig{Provider: provider, Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	return acquirer
}

func TestAcquireSignaturePrefersRawHash(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)
	acquirer := newAcquirer(t, &scriptedProvider{key: key})

	authorization, err := acquirer.AcquireSignature(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, types.SchemeRawHash, authorization.Scheme)
	require.Len(t, authorization.Signature, 65)
	assert.GreaterOrEqual(t, authorization.Signature[64], byte(27))

	signer := crypto.PubkeyToAddress(key.PublicKey)
	require.NoError(t, verifier.Verify(payload, authorization.Signature, authorization.Scheme, signer))
}

func TestAcquireSignatureFallsThroughToPrefixedMessage(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)

	// Only the generic message entry point works, as with a wallet that
	// exposes nothing but signMessage.
	acquirer := newAcquirer(t, &scriptedProvider{
		key:          key,
		failRaw:      walletProvider.ErrPrimitiveUnsupported,
		failPersonal: walletProvider.ErrPrimitiveUnsupported,
		failTyped:    walletProvider.ErrPrimitiveUnsupported,
	})

	authorization, err := acquirer.AcquireSignature(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, types.SchemePrefixedMessage, authorization.Scheme)

	signer := crypto.PubkeyToAddress(key.PublicKey)
	require.NoError(t, verifier.Verify(payload, authorization.Signature, authorization.Scheme, signer))

	// The same signature under the wrong tag must not authorize.
	err = verifier.Verify(payload, authorization.Signature, types.SchemeRawHash, signer)
	require.Error(t, err)
}

func TestAcquireSignatureStopsAtFirstWorkingPrimitive(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)

	acquirer := newAcquirer(t, &scriptedProvider{
		key:     key,
		failRaw: errors.New("wallet refused raw signing"),
	})

	authorization, err := acquirer.AcquireSignature(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, types.SchemePersonalSign, authorization.Scheme)
}

func TestAcquireSignatureRepairsTruncatedSignature(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)

	// Raw-only backend that omits the recovery byte, like KMS.
	acquirer := newAcquirer(t, &scriptedProvider{
		key:          key,
		truncate:     true,
		failPersonal: walletProvider.ErrPrimitiveUnsupported,
		failTyped:    walletProvider.ErrPrimitiveUnsupported,
		failMessage:  walletProvider.ErrPrimitiveUnsupported,
	})

	authorization, err := acquirer.AcquireSignature(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, types.SchemeRawHash, authorization.Scheme)
	require.Len(t, authorization.Signature, 65)
	assert.Contains(t, []byte{27, 28}, authorization.Signature[64])

	signer := crypto.PubkeyToAddress(key.PublicKey)
	require.NoError(t, verifier.Verify(payload, authorization.Signature, authorization.Scheme, signer))
}

func TestAcquireSignatureExhaustsAllPrimitives(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)

	acquirer := newAcquirer(t, &scriptedProvider{
		key:          key,
		failRaw:      errors.New("raw rejected"),
		failPersonal: errors.New("personal rejected"),
		failTyped:    errors.New("typed rejected"),
		failMessage:  errors.New("message rejected"),
	})

	_, err := acquirer.AcquireSignature(context.Background(), payload)
	require.Error(t, err)
	assert.Equal(t, types.KindSigningExhausted, types.KindOf(err))

	// Each primitive's failure is preserved in the aggregate.
	for _, scheme := range types.AllSigningSchemes() {
		assert.Contains(t, err.Error(), string(scheme))
	}
}

func TestAcquireSignatureRejectsForeignKey(t *testing.T) {
	key := newTestKey(t)
	otherKey := newTestKey(t)
	payload := newTestPayload(t)

	// The provider claims one address but signs with another key. Every
	// primitive produces a verifiable signature for the wrong address, so
	// the pre-check rejects each one.
	claimed := crypto.PubkeyToAddress(otherKey.PublicKey)
	acquirer := newAcquirer(t, &scriptedProvider{key: key, claimed: &claimed})

	_, err := acquirer.AcquireSignature(context.Background(), payload)
	require.Error(t, err)
	assert.Equal(t, types.KindSigningExhausted, types.KindOf(err))
}

func TestAcquireSignatureContextCancellation(t *testing.T) {
	key := newTestKey(t)
	payload := newTestPayload(t)
	acquirer := newAcquirer(t, &scriptedProvider{key: key})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := acquirer.AcquireSignature(ctx, payload)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, types.KindSigningExhausted, types.KindOf(err))
}

func TestNewAcquirerValidation(t *testing.T) {
	key := newTestKey(t)

	_, err := NewAcquirer(nil)
	require.Error(t, err)

	_, err = NewAcquirer(&AcquirerConfig{Logger: zaptest.NewLogger(t)})
	require.Error(t, err)

	_, err = NewAcquirer(&AcquirerConfig{Provider: &scriptedProvider{key: key}})
	require.Error(t, err)
}
