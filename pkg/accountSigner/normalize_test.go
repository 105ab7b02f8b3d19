package accountSigner

import (
	"math/big"
	"testing"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/digest"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/Gasway-Labs/gasway-relay-go/pkg/verifier"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizePayload(t *testing.T) *types.SigningPayload {
	t.Helper()
	payload, err := digest.BuildPayload(
		big.NewInt(31337),
		common.HexToAddress("0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		types.CallBatch{{To: common.HexToAddress("0xCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC"), Data: []byte{0x01}}},
		big.NewInt(2),
	)
	require.NoError(t, err)
	return payload
}

func TestNormalizeShiftsModernRecoveryByte(t *testing.T) {
	payload := normalizePayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	signature, err := crypto.Sign(payload.Digest.Bytes(), key)
	require.NoError(t, err)
	require.Less(t, signature[64], byte(27))

	normalized, err := NormalizeSignature(payload, signature, types.SchemeRawHash, signer)
	require.NoError(t, err)

	assert.Equal(t, signature[:64], normalized[:64])
	assert.Equal(t, signature[64]+27, normalized[64])

	// Input is left untouched.
	assert.Less(t, signature[64], byte(27))
}

func TestNormalizeKeepsLegacyRecoveryByte(t *testing.T) {
	payload := normalizePayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	signature, err := crypto.Sign(payload.Digest.Bytes(), key)
	require.NoError(t, err)
	signature[64] += 27

	normalized, err := NormalizeSignature(payload, signature, types.SchemeRawHash, signer)
	require.NoError(t, err)
	assert.Equal(t, signature, normalized)
}

func TestNormalizeRepairsTruncatedSignature(t *testing.T) {
	payload := normalizePayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	for _, scheme := range types.AllSigningSchemes() {
		hash, err := verifier.RecoveryHash(payload, scheme)
		require.NoError(t, err)
		full, err := crypto.Sign(hash, key)
		require.NoError(t, err)

		repaired, err := NormalizeSignature(payload, full[:64], scheme, signer)
		require.NoError(t, err, "scheme %s", scheme)

		assert.Equal(t, full[:64], repaired[:64], "scheme %s", scheme)
		assert.Equal(t, full[64]+27, repaired[64], "scheme %s", scheme)
		require.NoError(t, verifier.Verify(payload, repaired, scheme, signer), "scheme %s", scheme)
	}
}

func TestNormalizeRepairFailsForForeignSigner(t *testing.T) {
	payload := normalizePayload(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	otherKey, err := crypto.GenerateKey()
	require.NoError(t, err)

	signature, err := crypto.Sign(payload.Digest.Bytes(), key)
	require.NoError(t, err)

	// Repair against the wrong signer must fail rather than pick an
	// arbitrary recovery byte.
	_, err = NormalizeSignature(payload, signature[:64], types.SchemeRawHash, crypto.PubkeyToAddress(otherKey.PublicKey))
	assert.ErrorIs(t, err, ErrRepairFailed)
}

func TestNormalizeRejectsBadLengths(t *testing.T) {
	payload := normalizePayload(t)
	signer := common.HexToAddress("0x1234567890123456789012345678901234567890")

	for _, size := range []int{0, 1, 32, 63, 66, 130} {
		_, err := NormalizeSignature(payload, make([]byte, size), types.SchemeRawHash, signer)
		require.Error(t, err, "size %d", size)
	}
}
