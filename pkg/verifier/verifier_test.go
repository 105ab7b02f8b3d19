package verifier

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPayload(t *testing.T) *types.SigningPayload {
	t.Helper()
	calls := types.CallBatch{{
		To:    common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"),
		Value: big.NewInt(0),
		Data:  []byte{0xde, 0xad, 0xbe, 0xef},
	}}
	payload, err := digest.BuildPayload(
		big.NewInt(11155111),
		common.HexToAddress("0xBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB"),
		calls,
		big.NewInt(5),
	)
	require.NoError(t, err)
	return payload
}

func signUnderScheme(t *testing.T, payload *types.SigningPayload, scheme types.SigningScheme, key *ecdsa.PrivateKey) []byte {
	t.Helper()
	hash, err := RecoveryHash(payload, scheme)
	require.NoError(t, err)
	sig, err := crypto.Sign(hash, key)
	require.NoError(t, err)
	return sig
}

func TestRecoveryHashPerScheme(t *testing.T) {
	payload := newTestPayload(t)

	rawHash, err := RecoveryHash(payload, types.SchemeRawHash)
	require.NoError(t, err)
	assert.Equal(t, payload.Digest.Bytes(), rawHash)

	personalHash, err := RecoveryHash(payload, types.SchemePersonalSign)
	require.NoError(t, err)
	assert.Equal(t, accounts.TextHash(payload.Digest.Bytes()), personalHash)

	prefixedHash, err := RecoveryHash(payload, types.SchemePrefixedMessage)
	require.NoError(t, err)
	assert.Equal(t, personalHash, prefixedHash)

	typedHash, err := RecoveryHash(payload, types.SchemeTypedDataV4)
	require.NoError(t, err)
	assert.Equal(t, payload.TypedDataHash.Bytes(), typedHash)

	assert.NotEqual(t, rawHash, personalHash)
	assert.NotEqual(t, rawHash, typedHash)
}

func TestRecoveryHashUnknownScheme(t *testing.T) {
	payload := newTestPayload(t)
	_, err := RecoveryHash(payload, types.SigningScheme("eip191"))
	require.Error(t, err)
}

func TestVerifyRoundTripAllSchemes(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	for _, scheme := range types.AllSigningSchemes() {
		sig := signUnderScheme(t, payload, scheme, key)

		recovered, err := RecoverSigner(payload, sig, scheme)
		require.NoError(t, err, "scheme %s", scheme)
		assert.Equal(t, signer, recovered, "scheme %s", scheme)

		require.NoError(t, Verify(payload, sig, scheme, signer), "scheme %s", scheme)
	}
}

func TestVerifyAcceptsLegacyRecoveryByte(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig := signUnderScheme(t, payload, types.SchemeRawHash, key)
	require.Less(t, sig[64], byte(27))

	legacy := make([]byte, len(sig))
	copy(legacy, sig)
	legacy[64] += 27

	require.NoError(t, Verify(payload, sig, types.SchemeRawHash, signer))
	require.NoError(t, Verify(payload, legacy, types.SchemeRawHash, signer))

	// The input must not be normalized in place.
	assert.Equal(t, sig[64]+27, legacy[64])
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	sig := signUnderScheme(t, payload, types.SchemeRawHash, key)

	err = Verify(payload, sig, types.SchemeRawHash, crypto.PubkeyToAddress(otherKey.PublicKey))
	require.Error(t, err)
	assert.Equal(t, types.KindAuthorization, types.KindOf(err))
	assert.False(t, types.IsRetryable(err))
}

func TestVerifyRejectsMislabeledScheme(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	// Signed with the personal-message prefix but presented as a raw-hash
	// signature: recovery runs over the wrong hash and lands on some other
	// address, so authorization fails.
	sig := signUnderScheme(t, payload, types.SchemePersonalSign, key)

	err = Verify(payload, sig, types.SchemeRawHash, signer)
	require.Error(t, err)
	assert.Equal(t, types.KindAuthorization, types.KindOf(err))
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig := signUnderScheme(t, payload, types.SchemeRawHash, key)

	tampered := *payload
	tampered.Digest[0] ^= 0x01

	err = Verify(&tampered, sig, types.SchemeRawHash, signer)
	require.Error(t, err)
	assert.Equal(t, types.KindAuthorization, types.KindOf(err))
}

func TestVerifyRejectsTruncatedSignature(t *testing.T) {
	payload := newTestPayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	sig := signUnderScheme(t, payload, types.SchemeRawHash, key)

	err = Verify(payload, sig[:64], types.SchemeRawHash, signer)
	require.Error(t, err)
	assert.Equal(t, types.KindAuthorization, types.KindOf(err))
}
