package verifier

import (
	"bytes"

	"github.com/Gasway-Labs/gasway-relay-go/pkg/types"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// RecoveryHash returns the 32-byte hash a signature under the given scheme was
// actually produced over:
//   - raw_hash signs the packed digest with no transformation
//   - personal_sign and prefixed_message both sign the digest wrapped in the
//     "\x19Ethereum Signed Message:\n32" prefix; they differ only in which
//     provider entry point applied the prefix
//   - typed_data_v4 signs the EIP-712 hash carried on the payload
func RecoveryHash(payload *types.SigningPayload, scheme types.SigningScheme) ([]byte, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}
	switch scheme {
	case types.SchemeRawHash:
		return payload.Digest.Bytes(), nil
	case types.SchemePersonalSign, types.SchemePrefixedMessage:
		return accounts.TextHash(payload.Digest.Bytes()), nil
	case types.SchemeTypedDataV4:
		return payload.TypedDataHash.Bytes(), nil
	default:
		return nil, errors.Errorf("unknown signing scheme %q", scheme)
	}
}

// RecoverSigner recovers the address that signed the payload under the given
// scheme. The recovery byte may be 0/1 or 27/28; the legacy form is
// normalized before recovery.
func RecoverSigner(payload *types.SigningPayload, signature []byte, scheme types.SigningScheme) (common.Address, error) {
	if len(signature) != crypto.SignatureLength {
		return common.Address{}, errors.Errorf("invalid signature length: expected %d bytes, got %d", crypto.SignatureLength, len(signature))
	}

	hash, err := RecoveryHash(payload, scheme)
	if err != nil {
		return common.Address{}, err
	}

	// Recovery mutates the trailing byte, so work on a copy.
	sig := make([]byte, len(signature))
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pubKey, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, errors.Wrap(err, "failed to recover public key")
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// Verify checks that the signature over the payload recovers to the expected
// signer. It runs client-side as a pre-flight check and server-side as the
// sole authorization gate before any gas is spent; a failure here always
// rejects the request.
func Verify(payload *types.SigningPayload, signature []byte, scheme types.SigningScheme, expectedSigner common.Address) error {
	recovered, err := RecoverSigner(payload, signature, scheme)
	if err != nil {
		return types.NewAuthorizationError("verify", err)
	}
	if !bytes.Equal(recovered.Bytes(), expectedSigner.Bytes()) {
		return types.NewAuthorizationError("verify",
			errors.Errorf("signature recovered to %s, expected %s", recovered.Hex(), expectedSigner.Hex()))
	}
	return nil
}
