package localSigner

import (
	"context"
	"math/big"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/walletProvider"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestSigner(t *testing.T, schemes ...types.SigningScheme) *LocalSigner {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer, err := NewLocalSigner(&LocalSignerConfig{
		PrivateKey:     key,
		EnabledSchemes: schemes,
		Logger:         zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return signer
}

func newTestPayload(t *testing.T) *types.SigningPayload {
	t.Helper()
	payload, err := digest.BuildPayload(
		big.NewInt(31337),
		common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		types.CallBatch{{To: common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"), Data: []byte{0xde, 0xad}}},
		big.NewInt(1),
	)
	require.NoError(t, err)
	return payload
}

func TestLocalSignerAllPrimitivesRoundTrip(t *testing.T) {
	signer := newTestSigner(t)
	payload := newTestPayload(t)
	ctx := context.Background()

	address, err := signer.SignerAddress(ctx)
	require.NoError(t, err)

	sign := map[types.SigningScheme]func() ([]byte, error){
		types.SchemeRawHash:         func() ([]byte, error) { return signer.SignDigest(ctx, payload.Digest) },
		types.SchemePersonalSign:    func() ([]byte, error) { return signer.SignPersonalMessage(ctx, payload.Digest) },
		types.SchemeTypedDataV4:     func() ([]byte, error) { return signer.SignTypedData(ctx, payload.TypedData) },
		types.SchemePrefixedMessage: func() ([]byte, error) { return signer.SignMessage(ctx, payload.Digest.Bytes()) },
	}

	for scheme, signFn := range sign {
		signature, err := signFn()
		require.NoError(t, err, "scheme %s", scheme)
		require.Len(t, signature, 65, "scheme %s", scheme)
		require.NoError(t, verifier.Verify(payload, signature, scheme, address), "scheme %s", scheme)
	}
}

func TestLocalSignerCapabilityRestriction(t *testing.T) {
	signer := newTestSigner(t, types.SchemeRawHash)
	payload := newTestPayload(t)
	ctx := context.Background()

	_, err := signer.SignDigest(ctx, payload.Digest)
	require.NoError(t, err)

	_, err = signer.SignPersonalMessage(ctx, payload.Digest)
	assert.ErrorIs(t, err, walletProvider.ErrPrimitiveUnsupported)

	_, err = signer.SignTypedData(ctx, payload.TypedData)
	assert.ErrorIs(t, err, walletProvider.ErrPrimitiveUnsupported)

	_, err = signer.SignMessage(ctx, payload.Digest.Bytes())
	assert.ErrorIs(t, err, walletProvider.ErrPrimitiveUnsupported)
}

func TestLocalSignerContextCancellation(t *testing.T) {
	signer := newTestSigner(t)
	payload := newTestPayload(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := signer.SignDigest(ctx, payload.Digest)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalSignerConfigValidation(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)

	_, err = NewLocalSigner(nil)
	require.Error(t, err)

	_, err = NewLocalSigner(&LocalSignerConfig{Logger: logger})
	require.Error(t, err)

	_, err = NewLocalSigner(&LocalSignerConfig{PrivateKey: key})
	require.Error(t, err)

	_, err = NewLocalSigner(&LocalSignerConfig{
		PrivateKey:     key,
		EnabledSchemes: []types.SigningScheme{"eip191"},
		Logger:         logger,
	})
	require.Error(t, err)
}

func TestNewLocalSignerFromHex(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := common.Bytes2Hex(crypto.FromECDSA(key))
	wantAddress := crypto.PubkeyToAddress(key.PublicKey)

	for _, hex := range []string{keyHex, "0x" + keyHex} {
		signer, err := NewLocalSignerFromHex(hex, zaptest.NewLogger(t))
		require.NoError(t, err)

		address, err := signer.SignerAddress(context.Background())
		require.NoError(t, err)
		assert.Equal(t, wantAddress, address)
	}

	_, err = NewLocalSignerFromHex("not-hex", zaptest.NewLogger(t))
	require.Error(t, err)
}

func TestLocalSignerImplementsInterface(t *testing.T) {
	var _ walletProvider.IWalletProvider = newTestSigner(t)
}
